package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/go-i2p/cipherlab/lib/crypto/caesar"
	"github.com/go-i2p/cipherlab/lib/crypto/rsa"
	"github.com/go-i2p/cipherlab/lib/session"
	"github.com/go-i2p/logger"
)

// decodeParams unmarshals params into v. Absent params decode as {}.
func decodeParams(params json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(params)) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return NewRPCErrorWithData(ErrCodeInvalidParams, "invalid parameters", err.Error())
	}
	return nil
}

// textResult is the result shape of every method producing text.
func textResult(s string) map[string]interface{} {
	return map[string]interface{}{"Result": s}
}

// EchoHandler implements the Echo method. It returns the "Echo" parameter
// unchanged and is useful for checking connectivity and tokens.
//
//	{"Echo": "any_value"} -> {"Result": "any_value"}
type EchoHandler struct{}

// NewEchoHandler creates a new Echo handler.
func NewEchoHandler() *EchoHandler {
	return &EchoHandler{}
}

// Handle processes the Echo request.
func (h *EchoHandler) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Echo interface{} `json:"Echo"`
	}
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"Result": req.Echo,
	}, nil
}

// CaesarHandler implements CaesarEncrypt and CaesarDecrypt.
//
//	{"Text": "abc", "Shift": 3} -> {"Result": "def"}
//
// Shift may be a number or a string; a string that is not an integer
// counts as 0. A missing Shift uses the configured default.
type CaesarHandler struct {
	decrypt      bool
	defaultShift int
}

// NewCaesarHandler creates a handler for one direction.
func NewCaesarHandler(decrypt bool, defaultShift int) *CaesarHandler {
	return &CaesarHandler{decrypt: decrypt, defaultShift: defaultShift}
}

// Handle processes a Caesar request.
func (h *CaesarHandler) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Text  string          `json:"Text"`
		Shift json.RawMessage `json:"Shift"`
	}
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}

	shift, err := parseShiftParam(req.Shift, h.defaultShift)
	if err != nil {
		return nil, err
	}

	if h.decrypt {
		return textResult(caesar.Decrypt(req.Text, shift)), nil
	}
	return textResult(caesar.Encrypt(req.Text, shift)), nil
}

// parseShiftParam accepts a JSON number or a JSON string.
func parseShiftParam(raw json.RawMessage, def int) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return def, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return session.ParseShift(s), nil
	}

	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, NewRPCErrorWithData(ErrCodeInvalidParams, "Shift must be an integer", string(raw))
	}
	return n, nil
}

// GenerateRSAKeysHandler implements GenerateRSAKeys. It returns a fresh
// key pair without touching the server's session.
//
//	{"Bits": 16} -> {"publicKey": {"e": "...", "n": "..."}, "privateKey": {"d": "...", "n": "..."}}
type GenerateRSAKeysHandler struct {
	gen         *rsa.KeyGenerator
	check       func(bits int) error
	defaultBits int
}

// NewGenerateRSAKeysHandler creates the handler. check validates the
// requested width before any work is done.
func NewGenerateRSAKeysHandler(gen *rsa.KeyGenerator, check func(bits int) error, defaultBits int) *GenerateRSAKeysHandler {
	return &GenerateRSAKeysHandler{gen: gen, check: check, defaultBits: defaultBits}
}

// Handle processes a GenerateRSAKeys request.
func (h *GenerateRSAKeysHandler) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Bits int `json:"Bits"`
	}
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}

	bits := req.Bits
	if bits == 0 {
		bits = h.defaultBits
	}
	if err := h.check(bits); err != nil {
		return nil, err
	}

	return session.Generate(ctx, h.gen, bits)
}

// RSAEncryptHandler implements RSAEncrypt.
//
//	{"Text": "AA", "E": "17", "N": "3233"} -> {"Result": "2790.2790"}
type RSAEncryptHandler struct{}

// Handle processes an RSAEncrypt request.
func (h *RSAEncryptHandler) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Text string `json:"Text"`
		E    string `json:"E"`
		N    string `json:"N"`
	}
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}

	out, err := rsa.Encrypt(req.Text, req.E, req.N)
	if err != nil {
		return nil, err
	}
	return textResult(out), nil
}

// RSADecryptHandler implements RSADecrypt.
//
//	{"Cipher": "2790.2790", "D": "2753", "N": "3233"} -> {"Result": "AA"}
type RSADecryptHandler struct{}

// Handle processes an RSADecrypt request.
func (h *RSADecryptHandler) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Cipher string `json:"Cipher"`
		D      string `json:"D"`
		N      string `json:"N"`
	}
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}

	out, err := rsa.Decrypt(req.Cipher, req.D, req.N)
	if err != nil {
		return nil, err
	}
	return textResult(out), nil
}

// GenerateSessionKeysHandler implements GenerateSessionKeys: it replaces
// the key pair held by the server's session, optionally at a new width.
type GenerateSessionKeysHandler struct {
	sess *session.Session
}

// Handle processes a GenerateSessionKeys request.
func (h *GenerateSessionKeysHandler) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Bits int `json:"Bits"`
	}
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}

	var (
		kp  *rsa.KeyPair
		err error
	)
	if req.Bits != 0 {
		kp, err = h.sess.GenerateKeysWithBits(ctx, req.Bits)
	} else {
		kp, err = h.sess.GenerateKeys(ctx)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(logger.Fields{
		"at":   "(GenerateSessionKeysHandler).Handle",
		"bits": h.sess.Bits(),
	}).Info("session key pair regenerated")
	return kp, nil
}

// ProcessHandler implements Process: one operation against the server's
// session, generating the session key pair on first RSA use.
//
//	{"Algorithm": "rsa", "Mode": "encrypt", "Text": "hi"} -> {"Result": "..."}
type ProcessHandler struct {
	sess         *session.Session
	defaultShift int
}

// Handle processes a Process request.
func (h *ProcessHandler) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Algorithm string          `json:"Algorithm"`
		Mode      string          `json:"Mode"`
		Text      string          `json:"Text"`
		Shift     json.RawMessage `json:"Shift"`
	}
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}

	alg, err := session.ParseAlgorithm(req.Algorithm)
	if err != nil {
		return nil, err
	}
	mode, err := session.ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	shift, err := parseShiftParam(req.Shift, h.defaultShift)
	if err != nil {
		return nil, err
	}

	out, err := h.sess.Process(ctx, session.Request{
		Algorithm: alg,
		Mode:      mode,
		Text:      req.Text,
		Shift:     shift,
	})
	if err != nil {
		return nil, err
	}
	return textResult(out), nil
}
