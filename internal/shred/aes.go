package shred

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"os"
)

// scramblePass destroys the file's content by encrypting it in place
// with AES-CFB under a key and IV that are generated here and never
// stored. With the key gone this is a one-way scramble, not recoverable
// encryption. CFB is a stream mode, so the ciphertext has exactly the
// plaintext's length and the file is neither truncated nor extended.
func (s *Shredder) scramblePass(f *os.File, size int64) error {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return fmt.Errorf("generate iv: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}
	stream := cipher.NewCFBEncrypter(block, iv)

	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	plaintext := make([]byte, size)
	if _, err := io.ReadFull(f, plaintext); err != nil {
		return fmt.Errorf("read content: %w", err)
	}

	ciphertext := make([]byte, size)
	stream.XORKeyStream(ciphertext, plaintext)

	if s.onPassWritten != nil {
		s.onPassWritten(0, ciphertext)
	}

	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	if _, err := f.Write(ciphertext); err != nil {
		return fmt.Errorf("write ciphertext: %w", err)
	}

	return nil
}
