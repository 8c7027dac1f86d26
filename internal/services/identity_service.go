package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/federated"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
)

// identityService links verified Google identities to local users.
//
// Lookups and writes are not wrapped in a transaction. The unique indexes on
// users.google_subject_id and users.email make a lost race fail loudly, and
// the loser re-reads the winner's row instead of creating a duplicate.
type identityService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewIdentityService creates a new IdentityReconciler.
func NewIdentityService(db *gorm.DB) IdentityReconciler {
	return &identityService{db: db, log: logger.Named("identity")}
}

// Reconcile resolves identity to a user: by subject, else by email (linking
// the subject), else by creating a federated-only user.
func (s *identityService) Reconcile(ctx context.Context, identity *federated.Identity) (*models.User, error) {
	if identity == nil || identity.Subject == "" || identity.Email == "" {
		return nil, apperrors.ErrInvalidFederatedToken
	}

	user, err := s.findBySubject(ctx, identity.Subject)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	var existing models.User
	err = s.db.WithContext(ctx).Where("email = ?", identity.Email).First(&existing).Error
	switch {
	case err == nil:
		return s.link(ctx, &existing, identity)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.create(ctx, identity)
}

// link attaches the subject to a user that has none yet, backfilling the
// avatar when it is empty. The update only matches while google_subject_id is
// still NULL, so an existing link is never overwritten.
func (s *identityService) link(ctx context.Context, user *models.User, identity *federated.Identity) (*models.User, error) {
	subject := identity.Subject
	updates := map[string]interface{}{"google_subject_id": subject}
	user.GoogleSubjectID = &subject
	if (user.AvatarURL == nil || *user.AvatarURL == "") && identity.Picture != "" {
		picture := identity.Picture
		updates["avatar_url"] = picture
		user.AvatarURL = &picture
	}

	res := s.db.WithContext(ctx).Model(user).Where("google_subject_id IS NULL").Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return s.winner(ctx, subject)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		// Linked meanwhile, either to this subject or another one.
		return s.winner(ctx, subject)
	}

	s.log.Infow("google account linked", "user_id", user.ID)
	return user, nil
}

func (s *identityService) create(ctx context.Context, identity *federated.Identity) (*models.User, error) {
	subject := identity.Subject
	user := &models.User{
		Email:           identity.Email,
		DisplayName:     identity.Name,
		GoogleSubjectID: &subject,
	}
	if user.DisplayName == "" {
		user.DisplayName = identity.Email
	}
	if identity.Picture != "" {
		picture := identity.Picture
		user.AvatarURL = &picture
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.winner(ctx, subject)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.log.Infow("user created from google login", "user_id", user.ID)
	return user, nil
}

// winner re-reads the row that beat us to subject. When there is none the
// collision was on something else (the email) and the caller gets a conflict.
func (s *identityService) winner(ctx context.Context, subject string) (*models.User, error) {
	user, err := s.findBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.Wrap(apperrors.ErrFederatedIdentityConflict,
			fmt.Errorf("google subject could not be linked or created"))
	}
	return user, nil
}

// findBySubject returns nil, nil when no user carries subject.
func (s *identityService) findBySubject(ctx context.Context, subject string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("google_subject_id = ?", subject).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}
