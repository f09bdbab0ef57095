package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/unireg/internal/app/models"
	"github.com/yigit/unireg/internal/app/models/dto"
	"github.com/yigit/unireg/internal/app/repositories"
	"github.com/yigit/unireg/internal/pkg/apperrors"
	"github.com/yigit/unireg/internal/pkg/auth"
	"github.com/yigit/unireg/internal/pkg/validation"
)

// AuthService handles authentication operations
type AuthService struct {
	studentRepo *repositories.StudentRepository
	cartRepo    *repositories.CartRepository
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService. jwtService may be nil for the CLI.
func NewAuthService(
	studentRepo *repositories.StudentRepository,
	cartRepo *repositories.CartRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		studentRepo: studentRepo,
		cartRepo:    cartRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// validatePassword checks the password rules
func (s *AuthService) validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", apperrors.ErrInvalidPassword)
	}
	if !validation.ValidPassword(password) {
		return fmt.Errorf("%w: password must be at least %d characters long", apperrors.ErrInvalidPassword, validation.PasswordMinLength)
	}
	return nil
}

// Authenticate checks a student number (or username) and password
func (s *AuthService) Authenticate(ctx context.Context, studentNumber, password string) (*models.Student, error) {
	studentNumber = strings.TrimSpace(studentNumber)
	if studentNumber == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	student, err := s.studentRepo.GetByStudentNumber(ctx, studentNumber)
	if errors.Is(err, apperrors.ErrStudentNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(student.PasswordHash, password) {
		s.logger.Debug().Str("studentNumber", studentNumber).Msg("Password mismatch")
		return nil, apperrors.ErrInvalidCredentials
	}
	return student, nil
}

// Login authenticates a student and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	student, err := s.Authenticate(ctx, req.StudentNumber, req.Password)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", student.ID).Msg("Student logged in")
	return s.generateAuthResponse(student)
}

// Register creates a student account and logs it in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}
	if err := s.validatePassword(req.Password); err != nil {
		return nil, err
	}
	if !validation.ValidStudentNumber(req.StudentNumber) {
		return nil, apperrors.NewCustomError(apperrors.ErrBadRequest, "student number must be 9 digits")
	}
	if !validation.ValidFullName(req.FullName) {
		return nil, apperrors.NewCustomError(apperrors.ErrBadRequest, "full name is invalid")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		StudentNumber: req.StudentNumber,
		Username:      req.StudentNumber,
		PasswordHash:  hash,
		FullName:      strings.TrimSpace(req.FullName),
		Email:         strings.TrimSpace(req.Email),
		Phone:         req.Phone,
		Major:         req.Major,
		EntryYear:     req.EntryYear,
		Semester:      1,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentID", student.ID).Str("studentNumber", student.StudentNumber).Msg("Student registered")
	return s.generateAuthResponse(student)
}

func (s *AuthService) generateAuthResponse(student *models.Student) (*dto.AuthResponse, error) {
	if s.jwtService == nil {
		return nil, errors.New("token issuing is not configured")
	}
	token, expiresIn, err := s.jwtService.GenerateAccessToken(student)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		Student: student.Public(),
	}, nil
}

// Profile returns the public profile of a student
func (s *AuthService) Profile(ctx context.Context, studentID int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	public := student.Public()
	return &public, nil
}

// SignIn authenticates and remembers the student as the current local user
func (s *AuthService) SignIn(ctx context.Context, studentNumber, password string) (*models.Student, error) {
	student, err := s.Authenticate(ctx, studentNumber, password)
	if err != nil {
		return nil, err
	}
	if err := s.studentRepo.SetCurrentUser(ctx, student); err != nil {
		return nil, err
	}
	public := student.Public()
	return &public, nil
}

// SignOut forgets the current local user and drops their cart
func (s *AuthService) SignOut(ctx context.Context) error {
	current, err := s.studentRepo.CurrentUser(ctx)
	if errors.Is(err, apperrors.ErrNotLoggedIn) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.cartRepo.Save(ctx, current.ID, []models.Course{}); err != nil {
		return err
	}
	return s.studentRepo.ClearCurrentUser(ctx)
}

// CurrentUser returns the local user, apperrors.ErrNotLoggedIn when nobody signed in
func (s *AuthService) CurrentUser(ctx context.Context) (*models.Student, error) {
	return s.studentRepo.CurrentUser(ctx)
}
