package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/a-h/templ"

	"github.com/formkit-dev/formkit/pkg/form"
	"github.com/formkit-dev/formkit/pkg/logger"
	"github.com/formkit-dev/formkit/pkg/upload"
)

// Storage is the persistence surface the service needs; *Store satisfies it.
type Storage interface {
	EmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user User) (User, error)
}

// Config holds signup module settings.
type Config struct {
	SuccessURL    string `env:"SIGNUP_SUCCESS_URL" envDefault:"/welcome"`
	AvatarDir     string `env:"SIGNUP_AVATAR_DIR" envDefault:"avatars"`
	AvatarMaxSize int64  `env:"SIGNUP_AVATAR_MAX_SIZE" envDefault:"5242880"` // 5 MB
}

// SignupPageParams carries data for rendering the signup page, including
// the submitted values and per-field failures after a rejected submission.
type SignupPageParams struct {
	Values form.Input
	Errors map[string][]form.FieldError
}

// Views holds the templ components the module renders. When nil the module
// serves JSON only.
type Views struct {
	SignupPage func(SignupPageParams) templ.Component
}

// Service wires the signup form: declarative rules over the request
// snapshot, an asynchronous uniqueness rule against the store, and avatar
// upload on success.
type Service struct {
	cfg     Config
	store   Storage
	uploads upload.Storage
	views   *Views
	log     *slog.Logger
}

// ServiceOption configures optional service collaborators.
type ServiceOption func(*Service)

// WithUploads enables avatar storage.
func WithUploads(storage upload.Storage) ServiceOption {
	return func(s *Service) { s.uploads = storage }
}

// WithViews enables HTML rendering.
func WithViews(views *Views) ServiceOption {
	return func(s *Service) { s.views = views }
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// NewService creates the signup service.
func NewService(cfg Config, store Storage, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:   cfg,
		store: store,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// buildForm declares the signup rule sets over the request snapshot.
// Birthdate and avatar are optional: their rules attach only when the
// snapshot carries a value, since an absent optional field must not fail.
func (s *Service) buildForm(input form.Input) *form.Form {
	f := form.New(input)

	f.Field("name").Required().AlphaDash()
	f.Field("email").Required().Email().
		RuleFunc("unique", s.emailUnique, "The ${label} is already registered.", nil)
	f.Field("terms").Accepted("You must accept the terms of service.")

	if v, ok := input["birthdate"]; ok && v != "" {
		f.Field("birthdate").Date().
			Before(time.Now(), "The ${label} must be a date in the past.")
	}
	if _, ok := input["avatar"]; ok {
		f.Field("avatar").RuleFunc("image", s.avatarValid,
			"The ${label} must be an image up to ${maxSize} bytes.",
			map[string]any{"maxSize": s.cfg.AvatarMaxSize})
	}
	return f
}

// emailUnique is the asynchronous uniqueness rule; it runs in sequence with
// the synchronous email rules and may fail the whole validation with an
// error if the store is unreachable.
func (s *Service) emailUnique(ctx context.Context, value any) (bool, error) {
	email, _ := value.(string)
	if email == "" {
		return true, nil
	}
	taken, err := s.store.EmailTaken(ctx, email)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

func (s *Service) avatarValid(_ context.Context, value any) (bool, error) {
	fh, ok := value.(*multipart.FileHeader)
	if !ok {
		return false, nil
	}
	err := upload.Validate(fh, upload.Constraints{
		MaxSize:      s.cfg.AvatarMaxSize,
		AllowedTypes: []string{"image/png", "image/jpeg", "image/gif", "image/webp"},
	})
	return err == nil, nil
}

// Signup validates the snapshot and creates the account. Validation
// failures return *form.ValidationError; a duplicate insert that slips past
// the uniqueness rule returns ErrEmailTaken.
func (s *Service) Signup(ctx context.Context, input form.Input) (User, error) {
	if err := s.buildForm(input).ValidateOrFail(ctx); err != nil {
		return User{}, err
	}

	user := User{
		Name:  stringValue(input, "name"),
		Email: stringValue(input, "email"),
	}

	if raw, ok := input["birthdate"]; ok && raw != "" {
		birthdate, err := form.ParseDate(raw)
		if err != nil {
			return User{}, fmt.Errorf("parse birthdate: %w", err)
		}
		user.Birthdate = &birthdate
	}

	var avatarKey string
	if fh, ok := input["avatar"].(*multipart.FileHeader); ok && s.uploads != nil {
		avatarKey = upload.RandomKey(s.cfg.AvatarDir, fh)
		file, err := s.uploads.Save(ctx, fh, avatarKey)
		if err != nil {
			return User{}, fmt.Errorf("store avatar: %w", err)
		}
		user.AvatarURL = file.URL
	}

	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		// Roll back the orphaned avatar; losing the delete is acceptable.
		if avatarKey != "" {
			_ = s.uploads.Delete(ctx, avatarKey)
		}
		return User{}, err
	}

	s.log.InfoContext(ctx, "user signed up",
		slog.String("user_id", created.ID.String()),
		logger.Component("signup"),
	)
	return created, nil
}

func stringValue(input form.Input, name string) string {
	switch v := input[name].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// IsEmailTaken reports whether the error is the duplicate-account error,
// from either the rule or the insert race.
func IsEmailTaken(err error) bool {
	return errors.Is(err, ErrEmailTaken)
}
