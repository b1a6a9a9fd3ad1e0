package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/models"
	"github.com/camden-git/familymapbackend/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportRequest replaces a user's tree with the given dataset
type ImportRequest struct {
	Username string          `json:"username" validate:"required"`
	Persons  []models.Person `json:"persons" validate:"required,min=1,dive"`
	Events   []models.Event  `json:"events" validate:"dive"`
}

type ImportResult struct {
	Persons int `json:"persons"`
	Events  int `json:"events"`
}

// LocalService serves family datasets out of the local gorm database
type LocalService struct {
	db      *gorm.DB
	users   repository.UserRepository
	tokens  repository.AuthTokenRepository
	persons repository.PersonRepositoryInterface
	events  repository.EventRepositoryInterface
	log     *logger.Logger
}

func NewLocalService(db *gorm.DB, log *logger.Logger) *LocalService {
	if log == nil {
		log = logger.NewNop()
	}
	return &LocalService{
		db:      db,
		users:   repository.NewGormUserRepository(db),
		tokens:  repository.NewGormAuthTokenRepository(db),
		persons: repository.NewPersonRepository(db),
		events:  repository.NewEventRepository(db),
		log:     log,
	}
}

func (s *LocalService) Login(ctx context.Context, req LoginRequest) (AuthResult, error) {
	user, err := s.users.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResult{}, newServiceError("login", http.StatusUnauthorized, "incorrect username or password", nil)
		}
		return AuthResult{}, newServiceError("login", http.StatusInternalServerError, "failed to look up user", err)
	}
	if !user.CheckPassword(req.Password) {
		return AuthResult{}, newServiceError("login", http.StatusUnauthorized, "incorrect username or password", nil)
	}

	token := &models.AuthToken{Token: uuid.NewString(), Username: user.Username}
	if err := s.tokens.Create(token); err != nil {
		return AuthResult{}, newServiceError("login", http.StatusInternalServerError, "failed to issue auth token", err)
	}
	s.log.Info("Local login", "username", user.Username)
	return AuthResult{AuthToken: token.Token, Username: user.Username, PersonID: user.PersonID}, nil
}

// Register creates the user, the Person rooting their tree and a first token
func (s *LocalService) Register(ctx context.Context, req RegisterRequest) (AuthResult, error) {
	if _, err := s.users.GetByUsername(req.Username); err == nil {
		return AuthResult{}, newServiceError("register", http.StatusUnauthorized, "username already taken", nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResult{}, newServiceError("register", http.StatusInternalServerError, "failed to look up user", err)
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    strings.ToLower(req.Gender),
		PersonID:  uuid.NewString(),
	}
	if err := user.SetPassword(req.Password); err != nil {
		return AuthResult{}, newServiceError("register", http.StatusInternalServerError, "failed to hash password", err)
	}
	root := &models.Person{
		PersonID:           user.PersonID,
		AssociatedUsername: user.Username,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Gender:             user.Gender,
	}
	token := &models.AuthToken{Token: uuid.NewString(), Username: user.Username}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewGormUserRepository(tx).Create(user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if err := repository.NewPersonRepository(tx).Create(root); err != nil {
			return err
		}
		return repository.NewGormAuthTokenRepository(tx).Create(token)
	})
	if err != nil {
		return AuthResult{}, newServiceError("register", http.StatusInternalServerError, "failed to register user", err)
	}
	s.log.Info("Local registration", "username", user.Username, "person_id", user.PersonID)
	return AuthResult{AuthToken: token.Token, Username: user.Username, PersonID: user.PersonID}, nil
}

func (s *LocalService) authenticate(op, authToken string) (string, error) {
	if authToken == "" {
		return "", newServiceError(op, http.StatusUnauthorized, "missing auth token", nil)
	}
	token, err := s.tokens.GetByToken(authToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", newServiceError(op, http.StatusUnauthorized, "invalid auth token", nil)
		}
		return "", newServiceError(op, http.StatusInternalServerError, "failed to check auth token", err)
	}
	return token.Username, nil
}

func (s *LocalService) Persons(ctx context.Context, authToken string) ([]models.Person, error) {
	username, err := s.authenticate("persons", authToken)
	if err != nil {
		return nil, err
	}
	persons, err := s.persons.ListByUsername(username)
	if err != nil {
		return nil, newServiceError("persons", http.StatusInternalServerError, "failed to load persons", err)
	}
	return persons, nil
}

func (s *LocalService) Events(ctx context.Context, authToken string) ([]models.Event, error) {
	username, err := s.authenticate("events", authToken)
	if err != nil {
		return nil, err
	}
	events, err := s.events.ListByUsername(username)
	if err != nil {
		return nil, newServiceError("events", http.StatusInternalServerError, "failed to load events", err)
	}
	return events, nil
}

// Clear wipes every user, token, person and event
func (s *LocalService) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewEventRepository(tx).DeleteAll(); err != nil {
			return err
		}
		if err := repository.NewPersonRepository(tx).DeleteAll(); err != nil {
			return err
		}
		if err := repository.NewGormAuthTokenRepository(tx).DeleteAll(); err != nil {
			return err
		}
		return repository.NewGormUserRepository(tx).DeleteAll()
	})
	if err != nil {
		return newServiceError("clear", http.StatusInternalServerError, "failed to clear database", err)
	}
	s.log.Info("Local database cleared")
	return nil
}

// Import replaces the named user's tree. Every entity is stamped with the
// username; the user's root person must be part of the dataset.
func (s *LocalService) Import(ctx context.Context, req ImportRequest) (ImportResult, error) {
	user, err := s.users.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ImportResult{}, newServiceError("import", http.StatusNotFound, "unknown user "+req.Username, nil)
		}
		return ImportResult{}, newServiceError("import", http.StatusInternalServerError, "failed to look up user", err)
	}

	persons := make([]models.Person, len(req.Persons))
	rootFound := false
	for i, p := range req.Persons {
		p.AssociatedUsername = user.Username
		if p.PersonID == user.PersonID {
			rootFound = true
		}
		persons[i] = p
	}
	if !rootFound {
		return ImportResult{}, newServiceError("import", http.StatusBadRequest,
			fmt.Sprintf("dataset does not contain root person %s", user.PersonID), nil)
	}
	events := make([]models.Event, len(req.Events))
	for i, e := range req.Events {
		e.AssociatedUsername = user.Username
		events[i] = e
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		personRepo := repository.NewPersonRepository(tx)
		eventRepo := repository.NewEventRepository(tx)
		if err := eventRepo.DeleteByUsername(user.Username); err != nil {
			return err
		}
		if err := personRepo.DeleteByUsername(user.Username); err != nil {
			return err
		}
		if err := personRepo.CreateBatch(persons); err != nil {
			return err
		}
		return eventRepo.CreateBatch(events)
	})
	if err != nil {
		return ImportResult{}, newServiceError("import", http.StatusInternalServerError, "failed to import dataset", err)
	}
	s.log.Info("Imported dataset", "username", user.Username, "persons", len(persons), "events", len(events))
	return ImportResult{Persons: len(persons), Events: len(events)}, nil
}
