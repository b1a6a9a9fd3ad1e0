package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/models"
	"golang.org/x/time/rate"
)

// wire envelope of the family map server
type remoteResponse struct {
	AuthToken string          `json:"authtoken"`
	Username  string          `json:"username"`
	PersonID  string          `json:"personID"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Success   bool            `json:"success"`
}

// RemoteService talks to a family map server over HTTP
type RemoteService struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

func NewRemoteService(baseURL string, timeout time.Duration, ratePerSecond int, log *logger.Logger) *RemoteService {
	if ratePerSecond <= 0 {
		ratePerSecond = 10
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &RemoteService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond),
		log:     log,
	}
}

func (s *RemoteService) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	resp, err := s.do(ctx, "login", http.MethodPost, "/user/login", "", req)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{AuthToken: resp.AuthToken, Username: resp.Username, PersonID: resp.PersonID}, nil
}

func (s *RemoteService) Register(ctx context.Context, req RegisterRequest) (AuthResult, error) {
	req.Gender = strings.ToLower(req.Gender)
	resp, err := s.do(ctx, "register", http.MethodPost, "/user/register", "", req)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{AuthToken: resp.AuthToken, Username: resp.Username, PersonID: resp.PersonID}, nil
}

func (s *RemoteService) Persons(ctx context.Context, authToken string) ([]models.Person, error) {
	resp, err := s.do(ctx, "persons", http.MethodGet, "/person", authToken, nil)
	if err != nil {
		return nil, err
	}
	var persons []models.Person
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &persons); err != nil {
			return nil, newServiceError("persons", http.StatusBadGateway, "malformed person data", err)
		}
	}
	return persons, nil
}

func (s *RemoteService) Events(ctx context.Context, authToken string) ([]models.Event, error) {
	resp, err := s.do(ctx, "events", http.MethodGet, "/event", authToken, nil)
	if err != nil {
		return nil, err
	}
	var events []models.Event
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &events); err != nil {
			return nil, newServiceError("events", http.StatusBadGateway, "malformed event data", err)
		}
	}
	return events, nil
}

func (s *RemoteService) Clear(ctx context.Context) error {
	_, err := s.do(ctx, "clear", http.MethodPost, "/clear", "", nil)
	return err
}

func (s *RemoteService) do(ctx context.Context, op, method, path, authToken string, body interface{}) (*remoteResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, newServiceError(op, http.StatusServiceUnavailable, "request throttled", err)
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, newServiceError(op, http.StatusInternalServerError, "failed to encode request", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, newServiceError(op, http.StatusInternalServerError, "invalid request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		req.Header.Set("Authorization", authToken)
	}

	started := time.Now()
	httpResp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("Family service unreachable", "op", op, "error", err)
		return nil, newServiceError(op, http.StatusBadGateway, "unable to connect to server", err)
	}
	defer httpResp.Body.Close()
	s.log.Debug("Family service call", "op", op, "status", httpResp.StatusCode, "elapsed", time.Since(started))

	var decoded remoteResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil && err != io.EOF {
		return nil, newServiceError(op, http.StatusBadGateway, "malformed response", err)
	}

	if httpResp.StatusCode != http.StatusOK || !decoded.Success {
		msg := decoded.Message
		if msg == "" {
			msg = fmt.Sprintf("family service returned %d", httpResp.StatusCode)
		}
		return nil, newServiceError(op, statusFor(httpResp.StatusCode), msg, nil)
	}
	return &decoded, nil
}

// statusFor folds the server's failure codes onto the ones we surface. The
// reference server answers 400 (or 200 with success=false) for bad
// credentials and taken usernames.
func statusFor(code int) int {
	switch code {
	case http.StatusOK, http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}
