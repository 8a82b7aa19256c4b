package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-i2p/cipherlab/lib/config"
	"github.com/go-i2p/cipherlab/lib/crypto/rsa"
	"github.com/go-i2p/cipherlab/lib/session"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

// maxRequestBody bounds the size of a JSON-RPC request body.
const maxRequestBody = 1 << 20

// Server provides an HTTP/HTTPS endpoint for JSON-RPC requests.
// It integrates authentication, rate limiting, method dispatch, and
// graceful shutdown.
type Server struct {
	mu          sync.RWMutex
	config      config.RPCConfig
	authManager *AuthManager
	limiter     *RateLimiter
	registry    *MethodRegistry
	session     *session.Session
	httpServer  *http.Server
	listener    net.Listener
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

// NewServer creates a server for cfg. sess is the session the Process and
// GenerateSessionKeys methods act on; nil creates one from cfg.RSA.
func NewServer(cfg config.Config, sess *session.Session) (*Server, error) {
	if cfg.RPC.Address == "" {
		return nil, oops.Errorf("rpc: address cannot be empty")
	}

	authManager, err := NewAuthManager(cfg.RPC.Password, cfg.RPC.PasswordHash)
	if err != nil {
		return nil, oops.Wrapf(err, "rpc: failed to create auth manager")
	}

	if sess == nil {
		sess = session.New(cfg.RSA)
	}

	ctx, cancel := context.WithCancel(context.Background())
	server := &Server{
		config:      cfg.RPC,
		authManager: authManager,
		limiter:     NewRateLimiter(cfg.RPC.RateLimit, cfg.RPC.RateBurst),
		session:     sess,
		ctx:         ctx,
		cancel:      cancel,
	}
	server.registry = server.registerRPCHandlers(cfg)
	server.httpServer = &http.Server{
		Addr:         cfg.RPC.Address,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server, nil
}

// registerRPCHandlers builds the registry of every method the server offers.
func (s *Server) registerRPCHandlers(cfg config.Config) *MethodRegistry {
	registry := NewMethodRegistry()

	gen := rsa.NewKeyGenerator(nil)
	gen.DistinctPrimes = cfg.RSA.DistinctPrimes

	registry.Register("Authenticate", RPCHandlerFunc(s.handleAuthenticate))
	registry.Register("Echo", NewEchoHandler())
	registry.Register("CaesarEncrypt", NewCaesarHandler(false, cfg.Caesar.Shift))
	registry.Register("CaesarDecrypt", NewCaesarHandler(true, cfg.Caesar.Shift))
	registry.Register("GenerateRSAKeys", NewGenerateRSAKeysHandler(gen, cfg.RSA.CheckKeyBits, cfg.RSA.KeyBits))
	registry.Register("RSAEncrypt", &RSAEncryptHandler{})
	registry.Register("RSADecrypt", &RSADecryptHandler{})
	registry.Register("GenerateSessionKeys", &GenerateSessionKeysHandler{sess: s.session})
	registry.Register("Process", &ProcessHandler{sess: s.session, defaultShift: cfg.Caesar.Shift})
	registry.Register("Logout", RPCHandlerFunc(s.handleLogout))
	registry.Register("ListMethods", RPCHandlerFunc(s.handleListMethods))

	return registry
}

func (s *Server) handleAuthenticate(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		API      int    `json:"API"`
		Password string `json:"Password"`
	}
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}

	if req.API != 1 {
		return nil, NewRPCError(ErrCodeInvalidParams, "unsupported API version")
	}

	s.mu.RLock()
	expiration := s.config.TokenExpiration
	s.mu.RUnlock()

	token, err := s.authManager.Authenticate(req.Password, expiration)
	if err != nil {
		return nil, NewRPCError(ErrCodeAuthFailed, err.Error())
	}

	return map[string]interface{}{
		"API":   req.API,
		"Token": token,
	}, nil
}

// handleLogout revokes the token the request was made with.
func (s *Server) handleLogout(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Token string `json:"Token"`
	}
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	s.authManager.RevokeToken(req.Token)
	return textResult("logged out"), nil
}

func (s *Server) handleListMethods(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return map[string]interface{}{"Methods": s.registry.ListMethods()}, nil
}

// Handler returns the HTTP handler serving JSON-RPC on "/" and "/jsonrpc",
// behind the rate limiter.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/jsonrpc", s.handleRPC)
	mux.HandleFunc("/", s.handleRPC)
	return s.limiter.Middleware(mux)
}

// Start listens on the configured address and serves in the background.
// It returns once the listener is bound, so address errors surface here.
func (s *Server) Start() error {
	if !s.config.Enabled {
		log.Info("RPC server is disabled")
		return nil
	}

	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return oops.Wrapf(err, "rpc: failed to listen on %s", s.config.Address)
	}
	s.listener = ln

	s.startHTTPServer(ln)
	s.startCleanup()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) startHTTPServer(ln net.Listener) {
	protocol := "HTTP"
	if s.config.UseHTTPS {
		protocol = "HTTPS"
	}
	log.WithFields(logger.Fields{
		"at":       "(Server).startHTTPServer",
		"address":  ln.Addr().String(),
		"protocol": protocol,
		"methods":  s.registry.ListMethods(),
	}).Info("Starting RPC server")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		var err error
		if s.config.UseHTTPS {
			err = s.httpServer.ServeTLS(ln, s.config.CertFile, s.config.KeyFile)
		} else {
			err = s.httpServer.Serve(ln)
		}

		if err != nil && err != http.ErrServerClosed {
			log.WithFields(logger.Fields{
				"at":     "(Server).startHTTPServer",
				"reason": err.Error(),
			}).Error("RPC server error")
		}
	}()
}

// startCleanup periodically drops expired tokens and idle rate limiters.
func (s *Server) startCleanup() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				expired := s.authManager.CleanupExpiredTokens()
				idle := s.limiter.Cleanup(clientLimiterIdle)
				log.WithFields(logger.Fields{
					"at":             "(Server).startCleanup",
					"expired_tokens": expired,
					"active_tokens":  s.authManager.TokenCount(),
					"idle_clients":   idle,
				}).Debug("periodic cleanup")
			}
		}
	}()
}

// Reload applies new credentials and limits. Changing the password or its
// hash revokes every issued token. The listen address and TLS settings
// only take effect on restart.
func (s *Server) Reload(cfg config.RPCConfig) {
	s.mu.Lock()
	old := s.config
	s.config.Password = cfg.Password
	s.config.PasswordHash = cfg.PasswordHash
	s.config.TokenExpiration = cfg.TokenExpiration
	s.config.RateLimit = cfg.RateLimit
	s.config.RateBurst = cfg.RateBurst
	s.mu.Unlock()

	if old.Password != cfg.Password || old.PasswordHash != cfg.PasswordHash {
		s.authManager.ChangePassword(cfg.Password, cfg.PasswordHash)
	}
	s.limiter.SetLimit(cfg.RateLimit, cfg.RateBurst)

	log.WithFields(logger.Fields{
		"at":         "(Server).Reload",
		"rate_limit": cfg.RateLimit,
		"rate_burst": cfg.RateBurst,
	}).Info("RPC server configuration reloaded")
}

// Stop gracefully shuts down the server, waiting for active requests to
// complete. Calling it more than once is harmless.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		log.WithField("at", "(Server).Stop").Info("Stopping RPC server")

		s.cancel()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.WithFields(logger.Fields{
				"at":     "(Server).Stop",
				"reason": err.Error(),
			}).Error("Error during server shutdown")
		}

		s.wg.Wait()

		log.WithField("at", "(Server).Stop").Info("RPC server stopped")
	})
}

// Close implements io.Closer so the server can be registered with
// util.RegisterCloser.
func (s *Server) Close() error {
	s.Stop()
	return nil
}

// handleRPC processes JSON-RPC requests:
//  1. Verify HTTP method is POST and Content-Type is JSON
//  2. Parse the JSON-RPC request
//  3. Validate the token unless the method is Authenticate
//  4. Dispatch and write the response
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	s.setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if rpcErr := validateHTTPRequest(r); rpcErr != nil {
		writeError(w, http.StatusOK, nil, rpcErr)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	r.Body.Close()
	if err != nil {
		writeError(w, http.StatusOK, nil, NewRPCError(ErrCodeInternalError, "Failed to read request body"))
		return
	}

	req, err := ParseRequest(body)
	if err != nil {
		writeError(w, http.StatusOK, nil, toRPCError(err))
		return
	}

	if rpcErr := s.validateAuthentication(req); rpcErr != nil {
		writeError(w, http.StatusOK, req.ID, rpcErr)
		return
	}

	resp := s.registry.HandleParsedRequest(r.Context(), req)
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeResponse(w, http.StatusOK, resp)
}

// setCORSHeaders restricts cross-origin access to the server's own origin.
func (s *Server) setCORSHeaders(w http.ResponseWriter) {
	scheme := "http"
	if s.config.UseHTTPS {
		scheme = "https"
	}

	w.Header().Set("Access-Control-Allow-Origin", scheme+"://"+s.config.Address)
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func validateHTTPRequest(r *http.Request) *RPCError {
	if r.Method != http.MethodPost {
		return NewRPCError(ErrCodeInvalidRequest, "Method must be POST")
	}

	contentType := r.Header.Get("Content-Type")
	if contentType != "application/json" && contentType != "application/json; charset=utf-8" {
		return NewRPCError(ErrCodeInvalidRequest, "Content-Type must be application/json")
	}

	return nil
}

// validateAuthentication checks the Token parameter of every method but Authenticate.
func (s *Server) validateAuthentication(req *Request) *RPCError {
	if req.Method == "Authenticate" {
		return nil
	}

	var params struct {
		Token string `json:"Token"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Token == "" {
		return NewRPCError(ErrCodeAuthRequired, "Missing or invalid Token parameter")
	}

	if !s.authManager.ValidateToken(params.Token) {
		return NewRPCError(ErrCodeAuthRequired, "Invalid or expired authentication token")
	}

	return nil
}

// writeResponse writes resp as JSON with the given HTTP status.
func writeResponse(w http.ResponseWriter, status int, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		log.WithFields(logger.Fields{
			"at":     "writeResponse",
			"reason": err.Error(),
		}).Error("Failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.WithFields(logger.Fields{
			"at":     "writeResponse",
			"reason": err.Error(),
		}).Error("Failed to write response")
	}
}

// writeError writes a JSON-RPC error response. JSON-RPC errors use 200 OK
// except where the HTTP layer itself refuses the request.
func writeError(w http.ResponseWriter, status int, id interface{}, rpcErr *RPCError) {
	writeResponse(w, status, NewErrorResponse(id, rpcErr))
}
