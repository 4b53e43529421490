// Package mockservice is an in-memory implementation of the items service. It behaves like the
// FastAPI reference deployment closely enough for the contract tests to pass against it, and it
// can be told to break specific rules so that tests can check that the suite notices.
package mockservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/contract-tests/items-contract-tests/framework"
	"github.com/contract-tests/items-contract-tests/servicedef"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenLifetime = 8 * 24 * time.Hour

// Options configure a Service. Username and Password are the only credentials it accepts.
type Options struct {
	Username   string
	Password   string
	SigningKey []byte
	Paths      servicedef.Paths
	Faults     Faults
	Logger     framework.Logger
}

// Faults make the service violate parts of the contract.
type Faults struct {
	ServerErrorOnNullFields bool
	AcceptEmptyTitle        bool
	IgnoreListLimit         bool
	DeleteIsIdempotent      bool
	// AllowAnonymousAccess serves item requests without an Authorization header as the user.
	AllowAnonymousAccess bool
	// AcceptInvalidTokens serves item requests with a bearer token that does not verify as the user.
	AcceptInvalidTokens bool
	// NotFoundForMalformedIDs answers 404 instead of 422 for an item ID that is not a UUID.
	NotFoundForMalformedIDs bool
}

// Service is an http.Handler for the items API.
type Service struct {
	opts   Options
	userID string
	router chi.Router
	store  *itemStore
}

type contextKey struct{}

func New(opts Options) *Service {
	if opts.Paths == (servicedef.Paths{}) {
		opts.Paths = servicedef.DefaultPaths()
	}
	if len(opts.SigningKey) == 0 {
		opts.SigningKey = []byte(uuid.NewString())
	}
	if opts.Logger == nil {
		opts.Logger = framework.NullLogger()
	}
	s := &Service{
		opts:   opts,
		userID: uuid.NewString(),
		store:  newItemStore(),
	}

	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Get(opts.Paths.HealthCheck, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, true)
	})
	r.Post(opts.Paths.Login, s.login)
	itemsPath := strings.TrimSuffix(opts.Paths.Items, "/")
	r.Route(itemsPath, func(r chi.Router) {
		r.Use(s.requireBearerToken)
		r.Post("/", s.createItem)
		r.Get("/", s.listItems)
		r.Get("/{id}", s.readItem)
		r.Put("/{id}", s.updateItem)
		r.Delete("/{id}", s.deleteItem)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	s.router = r
	return s
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ItemCount returns the number of stored items, for all owners.
func (s *Service) ItemCount() int {
	return s.store.count()
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		startTime := time.Now()
		next.ServeHTTP(ww, r)
		s.opts.Logger.Printf("%s %s -> %d (%s)", r.Method, r.URL.RequestURI(), ww.Status(), time.Since(startTime))
	})
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "There was an error parsing the body")
		return
	}
	var problems []servicedef.ValidationError
	for _, field := range []string{"username", "password"} {
		if _, ok := r.PostForm[field]; !ok {
			problems = append(problems, missingField(field))
		}
	}
	if len(problems) != 0 {
		writeValidationErrors(w, problems)
		return
	}
	if r.PostForm.Get("username") != s.opts.Username || r.PostForm.Get("password") != s.opts.Password {
		writeDetail(w, http.StatusBadRequest, "Incorrect email or password")
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   s.userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	})
	signed, err := token.SignedString(s.opts.SigningKey)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, servicedef.TokenResponse{AccessToken: signed, TokenType: "bearer"})
}

func (s *Service) requireBearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		scheme, tokenString, _ := strings.Cut(auth, " ")
		if !strings.EqualFold(scheme, "bearer") || tokenString == "" {
			if s.opts.Faults.AllowAnonymousAccess {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, s.userID)))
				return
			}
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		userID, err := s.parseToken(tokenString)
		if err != nil && s.opts.Faults.AcceptInvalidTokens {
			userID, err = s.userID, nil
		}
		if err != nil {
			s.opts.Logger.Printf("rejected token: %s", err)
			writeDetail(w, http.StatusForbidden, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, userID)))
	})
}

func (s *Service) parseToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.opts.SigningKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.Subject != s.userID {
		return "", errors.New("unknown user")
	}
	return claims.Subject, nil
}

func currentUser(r *http.Request) string {
	userID, _ := r.Context().Value(contextKey{}).(string)
	return userID
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeValidationErrors(w http.ResponseWriter, problems []servicedef.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"detail": problems})
}
