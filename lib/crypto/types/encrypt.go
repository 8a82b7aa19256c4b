package types

// encrypts text
type TextEncrypter interface {
	// encrypt a plaintext string
	// return the ciphertext or "" and error if the text cannot be represented under this key
	EncryptText(text string) (string, error)
}

// a cipher that can go both ways with the same parameters
type TextCipher interface {
	TextEncrypter
	TextDecrypter
}
