package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"campushub/internal/community/app"
	"campushub/internal/community/domain/entities"
	"campushub/internal/community/domain/services"
)

func TestRegister(t *testing.T) {
	testUsername := "testuser"
	testEmail := "test@example.com"
	testPassword := "password123"
	hashedPassword := "hashed_password"
	generatedUserID := "generated-user-id"

	now := time.Now()

	createdUser := &entities.User{
		ID:           generatedUserID,
		Username:     testUsername,
		Email:        testEmail,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tests := []struct {
		name         string
		username     string
		email        string
		password     string
		setupMocks   func(userRepo *mockUserRepository, passwordSvc *mockPasswordService)
		expectedUser *entities.User
		expectedErr  error
		errorContext string
	}{
		{
			name:     "Success - user registered successfully",
			username: testUsername,
			email:    testEmail,
			password: testPassword,
			setupMocks: func(userRepo *mockUserRepository, passwordSvc *mockPasswordService) {
				userRepo.On("IsUsernameTaken", mock.Anything, testUsername, "").Return(false, nil).Once()
				userRepo.On("IsEmailTaken", mock.Anything, testEmail, "").Return(false, nil).Once()
				passwordSvc.On("Hash", mock.Anything, testPassword).Return(hashedPassword, nil).Once()
				userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
					return u.Username == testUsername && u.Email == testEmail && u.PasswordHash == hashedPassword
				})).Return(createdUser, nil).Once()
			},
			expectedUser: createdUser,
		},
		{
			name:         "Error - username too short",
			username:     "ana",
			email:        testEmail,
			password:     testPassword,
			setupMocks:   func(userRepo *mockUserRepository, passwordSvc *mockPasswordService) {},
			expectedErr:  entities.ErrUsernameTooShort,
			errorContext: "validating username",
		},
		{
			name:         "Error - username too long",
			username:     "a-very-long-username-over-limit",
			email:        testEmail,
			password:     testPassword,
			setupMocks:   func(userRepo *mockUserRepository, passwordSvc *mockPasswordService) {},
			expectedErr:  entities.ErrUsernameTooLong,
			errorContext: "validating username",
		},
		{
			name:         "Error - invalid email format",
			username:     testUsername,
			email:        "invalid-email",
			password:     testPassword,
			setupMocks:   func(userRepo *mockUserRepository, passwordSvc *mockPasswordService) {},
			expectedErr:  entities.ErrInvalidEmail,
			errorContext: "validating email",
		},
		{
			name:         "Error - password too short",
			username:     testUsername,
			email:        testEmail,
			password:     "pw1",
			setupMocks:   func(userRepo *mockUserRepository, passwordSvc *mockPasswordService) {},
			expectedErr:  entities.ErrPasswordTooShort,
			errorContext: "validating password",
		},
		{
			name:         "Error - password without digits",
			username:     testUsername,
			email:        testEmail,
			password:     "passwordonly",
			setupMocks:   func(userRepo *mockUserRepository, passwordSvc *mockPasswordService) {},
			expectedErr:  entities.ErrPasswordTooWeak,
			errorContext: "validating password",
		},
		{
			name:     "Error - username already taken",
			username: testUsername,
			email:    testEmail,
			password: testPassword,
			setupMocks: func(userRepo *mockUserRepository, passwordSvc *mockPasswordService) {
				userRepo.On("IsUsernameTaken", mock.Anything, testUsername, "").Return(true, nil).Once()
			},
			expectedErr:  services.ErrUsernameTaken,
			errorContext: "username already registered",
		},
		{
			name:     "Error - email already taken",
			username: testUsername,
			email:    testEmail,
			password: testPassword,
			setupMocks: func(userRepo *mockUserRepository, passwordSvc *mockPasswordService) {
				userRepo.On("IsUsernameTaken", mock.Anything, testUsername, "").Return(false, nil).Once()
				userRepo.On("IsEmailTaken", mock.Anything, testEmail, "").Return(true, nil).Once()
			},
			expectedErr:  services.ErrEmailTaken,
			errorContext: "email already registered",
		},
		{
			// Обе коллизии сразу: наружу уходит ошибка username, email даже
			// не проверяется.
			name:     "Error - username collision wins over email collision",
			username: testUsername,
			email:    testEmail,
			password: testPassword,
			setupMocks: func(userRepo *mockUserRepository, passwordSvc *mockPasswordService) {
				userRepo.On("IsUsernameTaken", mock.Anything, testUsername, "").Return(true, nil).Once()
			},
			expectedErr:  services.ErrUsernameTaken,
			errorContext: "username already registered",
		},
		{
			name:     "Error - database error during username check",
			username: testUsername,
			email:    testEmail,
			password: testPassword,
			setupMocks: func(userRepo *mockUserRepository, passwordSvc *mockPasswordService) {
				userRepo.On("IsUsernameTaken", mock.Anything, testUsername, "").
					Return(false, errors.New("database error")).Once()
			},
			expectedErr:  errors.New("database error"),
			errorContext: "checking username uniqueness",
		},
		{
			name:     "Error - password hashing failure",
			username: testUsername,
			email:    testEmail,
			password: testPassword,
			setupMocks: func(userRepo *mockUserRepository, passwordSvc *mockPasswordService) {
				userRepo.On("IsUsernameTaken", mock.Anything, testUsername, "").Return(false, nil).Once()
				userRepo.On("IsEmailTaken", mock.Anything, testEmail, "").Return(false, nil).Once()
				passwordSvc.On("Hash", mock.Anything, testPassword).Return("", errors.New("hashing error")).Once()
			},
			expectedErr:  errors.New("hashing error"),
			errorContext: "hashing password",
		},
		{
			name:     "Error - user creation failure",
			username: testUsername,
			email:    testEmail,
			password: testPassword,
			setupMocks: func(userRepo *mockUserRepository, passwordSvc *mockPasswordService) {
				userRepo.On("IsUsernameTaken", mock.Anything, testUsername, "").Return(false, nil).Once()
				userRepo.On("IsEmailTaken", mock.Anything, testEmail, "").Return(false, nil).Once()
				passwordSvc.On("Hash", mock.Anything, testPassword).Return(hashedPassword, nil).Once()
				userRepo.On("Create", mock.Anything, mock.Anything).
					Return(nil, errors.New("user creation failed")).Once()
			},
			expectedErr:  errors.New("user creation failed"),
			errorContext: "creating user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(mockUserRepository)
			passwordSvc := new(mockPasswordService)
			tokenSvc := new(mockTokenService)

			tt.setupMocks(userRepo, passwordSvc)

			authUseCase := app.NewAuthUseCase(userRepo, passwordSvc, tokenSvc)

			user, err := authUseCase.Register(context.Background(), tt.username, tt.email, tt.password)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContext)

				if errors.Is(err, entities.ErrUsernameTooShort) ||
					errors.Is(err, entities.ErrUsernameTooLong) ||
					errors.Is(err, entities.ErrInvalidEmail) ||
					errors.Is(err, entities.ErrPasswordTooShort) ||
					errors.Is(err, entities.ErrPasswordTooWeak) ||
					errors.Is(err, services.ErrUsernameTaken) ||
					errors.Is(err, services.ErrEmailTaken) {
					assert.ErrorIs(t, err, tt.expectedErr)
				}

				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
				assert.Equal(t, tt.expectedUser.ID, user.ID)
				assert.Equal(t, tt.expectedUser.Username, user.Username)
				assert.Equal(t, tt.expectedUser.Email, user.Email)
			}

			userRepo.AssertExpectations(t)
			passwordSvc.AssertExpectations(t)
			tokenSvc.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	testPassword := "password123"
	hashedPassword := "hashed_password"
	testToken := "issued-token"
	expiresAt := time.Now().Add(60 * 24 * time.Hour)

	storedUser := &entities.User{
		ID:           "user-id-1",
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: hashedPassword,
	}

	tests := []struct {
		name         string
		identifier   string
		password     string
		setupMocks   func(userRepo *mockUserRepository, passwordSvc *mockPasswordService, tokenSvc *mockTokenService)
		expectToken  bool
		expectedErr  error
		errorContext string
	}{
		{
			name:       "Success - login with email",
			identifier: storedUser.Email,
			password:   testPassword,
			setupMocks: func(userRepo *mockUserRepository, passwordSvc *mockPasswordService, tokenSvc *mockTokenService) {
				userRepo.On("FindByIdentifier", mock.Anything, storedUser.Email).Return(storedUser, nil).Once()
				passwordSvc.On("Verify", mock.Anything, testPassword, hashedPassword).Return(true, nil).Once()
				tokenSvc.On("Generate", mock.Anything, storedUser.ID, storedUser.Username).
					Return(testToken, expiresAt, nil).Once()
			},
			expectToken: true,
		},
		{
			name:       "Success - login with username",
			identifier: storedUser.Username,
			password:   testPassword,
			setupMocks: func(userRepo *mockUserRepository, passwordSvc *mockPasswordService, tokenSvc *mockTokenService) {
				userRepo.On("FindByIdentifier", mock.Anything, storedUser.Username).Return(storedUser, nil).Once()
				passwordSvc.On("Verify", mock.Anything, testPassword, hashedPassword).Return(true, nil).Once()
				tokenSvc.On("Generate", mock.Anything, storedUser.ID, storedUser.Username).
					Return(testToken, expiresAt, nil).Once()
			},
			expectToken: true,
		},
		{
			name:       "Error - unknown identifier",
			identifier: "nobody",
			password:   testPassword,
			setupMocks: func(userRepo *mockUserRepository, passwordSvc *mockPasswordService, tokenSvc *mockTokenService) {
				userRepo.On("FindByIdentifier", mock.Anything, "nobody").
					Return(nil, entities.ErrUserNotFound).Once()
			},
			expectedErr:  services.ErrInvalidCredentials,
			errorContext: "invalid credentials",
		},
		{
			name:       "Error - wrong password",
			identifier: storedUser.Email,
			password:   "wrong-password1",
			setupMocks: func(userRepo *mockUserRepository, passwordSvc *mockPasswordService, tokenSvc *mockTokenService) {
				userRepo.On("FindByIdentifier", mock.Anything, storedUser.Email).Return(storedUser, nil).Once()
				passwordSvc.On("Verify", mock.Anything, "wrong-password1", hashedPassword).Return(false, nil).Once()
			},
			expectedErr:  services.ErrInvalidCredentials,
			errorContext: "invalid credentials",
		},
		{
			name:       "Error - repository failure",
			identifier: storedUser.Email,
			password:   testPassword,
			setupMocks: func(userRepo *mockUserRepository, passwordSvc *mockPasswordService, tokenSvc *mockTokenService) {
				userRepo.On("FindByIdentifier", mock.Anything, storedUser.Email).
					Return(nil, errors.New("database error")).Once()
			},
			expectedErr:  errors.New("database error"),
			errorContext: "finding user",
		},
		{
			name:       "Error - token generation failure",
			identifier: storedUser.Email,
			password:   testPassword,
			setupMocks: func(userRepo *mockUserRepository, passwordSvc *mockPasswordService, tokenSvc *mockTokenService) {
				userRepo.On("FindByIdentifier", mock.Anything, storedUser.Email).Return(storedUser, nil).Once()
				passwordSvc.On("Verify", mock.Anything, testPassword, hashedPassword).Return(true, nil).Once()
				tokenSvc.On("Generate", mock.Anything, storedUser.ID, storedUser.Username).
					Return("", time.Time{}, errors.New("signing failed")).Once()
			},
			expectedErr:  services.ErrTokenGenerationFailed,
			errorContext: "issuing token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(mockUserRepository)
			passwordSvc := new(mockPasswordService)
			tokenSvc := new(mockTokenService)

			tt.setupMocks(userRepo, passwordSvc, tokenSvc)

			authUseCase := app.NewAuthUseCase(userRepo, passwordSvc, tokenSvc)

			session, err := authUseCase.Login(context.Background(), tt.identifier, tt.password)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContext)
				if errors.Is(err, services.ErrInvalidCredentials) ||
					errors.Is(err, services.ErrTokenGenerationFailed) {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
				assert.Nil(t, session)
			} else {
				require.NoError(t, err)
				require.NotNil(t, session)
				assert.Equal(t, testToken, session.Token)
				assert.Equal(t, expiresAt, session.ExpiresAt)
				assert.Equal(t, storedUser.ID, session.User.ID)
			}

			userRepo.AssertExpectations(t)
			passwordSvc.AssertExpectations(t)
			tokenSvc.AssertExpectations(t)
		})
	}
}
