package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"campushub/internal/community/domain/entities"
	"campushub/internal/community/domain/services"
	"campushub/internal/community/ports/api"
	"campushub/internal/community/ports/repositories"
	svc "campushub/internal/community/ports/services"
	"campushub/pkg/logger"

	"go.uber.org/zap"
)

const (
	methodRegister = "Register"
	methodLogin    = "Login"

	msgStartRegistration  = "starting user registration"
	msgInvalidUsername    = "invalid username provided"
	msgInvalidEmailFormat = "invalid email format"
	msgInvalidPassword    = "invalid password"
	msgUsernameExists     = "username is already in use"
	msgEmailExists        = "email is already in use"
	msgUserRegistered     = "user registered successfully"
	msgLoginAttempt       = "login attempt"
	msgLoginNonExistent   = "login attempt with unknown identifier"
	msgWrongPassword      = "invalid password provided"
	msgUserLoggedIn       = "user logged in successfully"
	msgTokenIssued        = "identity token issued"

	msgErrCheckUsername  = "failed to check username uniqueness"
	msgErrCheckEmail     = "failed to check email uniqueness"
	msgErrHashPassword   = "failed to hash password"
	msgErrCreateUser     = "failed to create user"
	msgErrFindingUser    = "error finding user by identifier"
	msgErrVerifyPassword = "error verifying password"
	msgErrIssueToken     = "failed to issue identity token"

	errCtxValidatingUsername = "validating username"
	errCtxValidatingEmail    = "validating email"
	errCtxValidatingPassword = "validating password"
	errCtxCheckingUsername   = "checking username uniqueness"
	errCtxCheckingEmail      = "checking email uniqueness"
	errCtxUsernameTaken      = "username already registered"
	errCtxEmailTaken         = "email already registered"
	errCtxHashingPassword    = "hashing password"
	errCtxCreatingUser       = "creating user"
	errCtxInvalidCredentials = "invalid credentials"
	errCtxFindingUser        = "finding user"
	errCtxVerifyingPassword  = "verifying password"
	errCtxIssuingToken       = "issuing token"
)

// Шаблоны валидации формата email и состава пароля.
var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`\d`)
)

// AuthUseCaseImpl реализует интерфейс AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
) api.AuthUseCase {
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
	}
}

// Register создает нового пользователя. Уникальность username проверяется
// раньше уникальности email: при двойной коллизии наружу уходит ошибка
// username.
func (a *AuthUseCaseImpl) Register(ctx context.Context, username, email, password string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("username", username))
	log.Debug(ctx, msgStartRegistration)

	if err := validateUsername(username); err != nil {
		log.Debug(ctx, msgInvalidUsername, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingUsername, err)
	}
	if err := validateEmail(email); err != nil {
		log.Debug(ctx, msgInvalidEmailFormat, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}
	if err := validatePassword(password); err != nil {
		log.Debug(ctx, msgInvalidPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidatingPassword, err)
	}

	usernameTaken, err := a.userRepo.IsUsernameTaken(ctx, username, "")
	if err != nil {
		log.Error(ctx, msgErrCheckUsername, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingUsername, err)
	}
	if usernameTaken {
		log.Debug(ctx, msgUsernameExists)
		return nil, fmt.Errorf("%s: %w", errCtxUsernameTaken, services.ErrUsernameTaken)
	}

	emailTaken, err := a.userRepo.IsEmailTaken(ctx, email, "")
	if err != nil {
		log.Error(ctx, msgErrCheckEmail, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingEmail, err)
	}
	if emailTaken {
		log.Debug(ctx, msgEmailExists)
		return nil, fmt.Errorf("%s: %w", errCtxEmailTaken, services.ErrEmailTaken)
	}

	hashedPassword, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	newUser := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	createdUser, err := a.userRepo.Create(ctx, newUser)
	if err != nil {
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", createdUser.ID))
	return createdUser, nil
}

// Login аутентифицирует пользователя по email либо username. Неизвестный
// идентификатор и неверный пароль дают один и тот же результат.
func (a *AuthUseCaseImpl) Login(ctx context.Context, identifier, password string) (*services.Session, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin))
	log.Debug(ctx, msgLoginAttempt)

	user, err := a.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	valid, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyPassword, zap.Error(err), zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgWrongPassword, zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrInvalidCredentials)
	}

	token, expiresAt, err := a.tokenSvc.Generate(ctx, user.ID, user.Username)
	if err != nil {
		log.Error(ctx, msgErrIssueToken, zap.Error(err), zap.String("userID", user.ID))
		return nil, fmt.Errorf("%s: %w", errCtxIssuingToken, services.ErrTokenGenerationFailed)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))
	log.Debug(ctx, msgTokenIssued, zap.Time("expiresAt", expiresAt))

	return &services.Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Валидация username: 4-20 символов.
func validateUsername(username string) error {
	if username == "" {
		return entities.ErrEmptyUsername
	}
	if len(username) < entities.MinUsernameLength {
		return entities.ErrUsernameTooShort
	}
	if len(username) > entities.MaxUsernameLength {
		return entities.ErrUsernameTooLong
	}
	return nil
}

// Валидация email.
func validateEmail(email string) error {
	if email == "" {
		return entities.ErrInvalidEmail
	}

	if !emailPattern.MatchString(email) {
		return entities.ErrInvalidEmail
	}

	return nil
}

// Валидация пароля: не короче 8 символов, содержит буквы и цифры.
func validatePassword(password string) error {
	if len(password) < services.MinPasswordLength {
		return entities.ErrPasswordTooShort
	}

	if !letterPattern.MatchString(password) || !digitPattern.MatchString(password) {
		return entities.ErrPasswordTooWeak
	}

	return nil
}
