package rpc

import (
	"context"
	"errors"

	"github.com/go-i2p/cipherlab/lib/config"
	"github.com/go-i2p/cipherlab/lib/crypto/rsa"
	"github.com/go-i2p/cipherlab/lib/session"
)

// toRPCError maps an error returned by a handler onto a JSON-RPC error.
// Cipher failures get their own codes; anything unrecognised is internal.
func toRPCError(err error) *RPCError {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var tooLarge *rsa.CharacterTooLargeError
	if errors.As(err, &tooLarge) {
		return NewRPCErrorWithData(ErrCodeCharacterTooLarge, "character too large for key", map[string]interface{}{
			"Code":    tooLarge.Code,
			"Modulus": tooLarge.Modulus.String(),
		})
	}

	var malformed *rsa.MalformedCiphertextError
	if errors.As(err, &malformed) {
		return NewRPCErrorWithData(ErrCodeMalformedCiphertext, "malformed ciphertext", map[string]interface{}{
			"Index": malformed.Index,
			"Token": malformed.Token,
		})
	}

	var invalidCfg *config.ValidationError
	switch {
	case errors.Is(err, rsa.ErrInvalidKey):
		return NewRPCErrorWithData(ErrCodeInvalidKey, "invalid key", err.Error())
	case errors.Is(err, rsa.ErrInvalidBitSize), errors.As(err, &invalidCfg):
		return NewRPCErrorWithData(ErrCodeInvalidKeySize, "invalid key size", err.Error())
	case errors.Is(err, session.ErrUnknownAlgorithm), errors.Is(err, session.ErrUnknownMode):
		return NewRPCErrorWithData(ErrCodeInvalidParams, "invalid parameters", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NewRPCErrorWithData(ErrCodeInternalError, "request cancelled", err.Error())
	}

	return NewRPCErrorWithData(ErrCodeInternalError, "internal error", err.Error())
}
