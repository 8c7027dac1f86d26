package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
	"expensetracker/internal/uuid"
)

// authService handles registration and both login flows.
type authService struct {
	db         *gorm.DB
	issuer     TokenIssuer
	verifier   FederatedVerifier
	reconciler IdentityReconciler
	cost       int
	log        *zap.SugaredLogger
}

// NewAuthService creates a new AuthServicer. A bcryptCost of zero selects
// bcrypt.DefaultCost.
func NewAuthService(db *gorm.DB, issuer TokenIssuer, verifier FederatedVerifier, reconciler IdentityReconciler, bcryptCost int) AuthServicer {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		db:         db,
		issuer:     issuer,
		verifier:   verifier,
		reconciler: reconciler,
		cost:       bcryptCost,
		log:        logger.Named("auth"),
	}
}

// Register creates a password user. The email is stored and matched exactly.
func (s *authService) Register(ctx context.Context, email, displayName, password string) error {
	if email == "" || password == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	hash := string(hashed)

	user := &models.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: &hash,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// A concurrent registration won the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrDuplicateEmail
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.log.Infow("user registered", "user_id", user.ID)
	return nil
}

// Login checks a password and returns a session token. Unknown email,
// federated-only account and wrong password all yield ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrInvalidCredentials
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !user.HasPassword() {
		return "", apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	return s.issue(&user)
}

// GoogleLogin verifies a Google ID token, resolves the local user and
// returns a session token.
func (s *authService) GoogleLogin(ctx context.Context, idToken string) (string, error) {
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Internal != nil {
			s.log.Infow("google token rejected", "reason", appErr.Internal.Error())
		}
		return "", err
	}

	user, err := s.reconciler.Reconcile(ctx, identity)
	if err != nil {
		return "", err
	}

	return s.issue(user)
}

// GetUserByID retrieves a user by ID
func (s *authService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

func (s *authService) issue(user *models.User) (string, error) {
	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.log.Debugw("session token issued", "user_id", user.ID)
	return token, nil
}
