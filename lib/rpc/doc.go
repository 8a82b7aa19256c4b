// Package rpc implements a JSON-RPC 2.0 server exposing the Caesar and RSA
// operations to other programs.
//
// # Quick Start
//
// Enable the server in config.yaml:
//
//	rpc:
//	  enabled: true
//	  address: "localhost:7651"
//	  password: "your-password"
//	  token_expiration: 10m
//	  rate_limit: 20
//	  rate_burst: 40
//
// and run:
//
//	cipherlab serve
//
// Programmatic usage:
//
//	srv, err := rpc.NewServer(config.CurrentConfig(), nil)
//	if err != nil {
//	    return err
//	}
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//	defer srv.Stop()
//
// # Authentication
//
// Every method except Authenticate needs a "Token" parameter obtained from
// Authenticate. Tokens are HMAC-SHA256 signatures keyed by a random per-process
// secret and expire after rpc.token_expiration. When rpc.password_hash holds
// a bcrypt hash, the password is checked against it instead of rpc.password.
//
//	curl -X POST http://localhost:7651/jsonrpc \
//	  -H "Content-Type: application/json" \
//	  -d '{"jsonrpc":"2.0","id":1,"method":"Authenticate",
//	       "params":{"API":1,"Password":"cipherlab"}}'
//	# {"jsonrpc":"2.0","id":1,"result":{"API":1,"Token":"abc123..."}}
//
// # Methods
//
//   - Authenticate {API, Password} -> {API, Token}
//   - Echo {Echo} -> {Result}
//   - CaesarEncrypt, CaesarDecrypt {Text, Shift} -> {Result}
//   - GenerateRSAKeys {Bits} -> key pair
//   - RSAEncrypt {Text, E, N} -> {Result}
//   - RSADecrypt {Cipher, D, N} -> {Result}
//   - GenerateSessionKeys {Bits} -> key pair held by the server; Bits
//     becomes the session's width only if generation succeeds
//   - Process {Algorithm, Mode, Text, Shift} -> {Result}, using the held pair
//   - ListMethods {} -> {Methods}
//   - Logout {} -> {Result}, revoking the calling token
//
// Key pairs are encoded as
//
//	{"publicKey": {"e": "...", "n": "..."}, "privateKey": {"d": "...", "n": "..."}}
//
// Example round trip with the textbook key (e=17, d=2753, n=3233):
//
//	{"method":"RSAEncrypt","params":{"Token":"...","Text":"AA","E":"17","N":"3233"}}
//	# {"result":{"Result":"2790.2790"}}
//	{"method":"RSADecrypt","params":{"Token":"...","Cipher":"2790.2790","D":"2753","N":"3233"}}
//	# {"result":{"Result":"AA"}}
//
// # Error Codes
//
//   - -32700: Parse error
//   - -32600: Invalid Request
//   - -32601: Method not found
//   - -32602: Invalid params
//   - -32603: Internal error
//   - -32000: Authentication required (missing, invalid or expired token)
//   - -32001: Authentication failed (wrong password)
//   - -32003: Rate limited (sent with HTTP 429)
//   - -32010: Invalid key
//   - -32011: Character too large for key; data holds Code and Modulus
//   - -32012: Malformed ciphertext; data holds Index and Token
//   - -32013: Invalid key size
//
// # Thread Safety
//
// Server, AuthManager, RateLimiter and MethodRegistry are safe for
// concurrent use. The session behind Process and GenerateSessionKeys is
// shared by all clients.
package rpc

import "github.com/go-i2p/logger"

var log = logger.GetGoI2PLogger()
