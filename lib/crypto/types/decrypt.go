package types

// decrypts text
type TextDecrypter interface {
	// decrypt a ciphertext string
	// return the plaintext or "" and error if the ciphertext or key is unusable
	DecryptText(cipher string) (string, error)
}
