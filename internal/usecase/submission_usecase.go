package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"interview-tayari/internal/domain"
	"interview-tayari/pkg/apperror"
	"interview-tayari/pkg/logger"
	"interview-tayari/pkg/security"
	"interview-tayari/pkg/security/antivirus"

	"github.com/google/uuid"
)

// UploadLimiter caps verification uploads per user. Release hands back the
// slot taken by the last Allow when the submission did not go through.
type UploadLimiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
	Release(ctx context.Context, userID string) error
}

// FileScanner checks an upload for malware.
type FileScanner interface {
	Scan(ctx context.Context, filename string, data []byte) antivirus.ScanResult
}

type submissionUsecase struct {
	repo    domain.ExperienceRepository
	store   domain.ObjectStore
	limiter UploadLimiter
	scanner FileScanner
}

// NewSubmissionUsecase builds the submission usecase. limiter and scanner
// may be nil.
func NewSubmissionUsecase(repo domain.ExperienceRepository, store domain.ObjectStore, limiter UploadLimiter, scanner FileScanner) domain.SubmissionUsecase {
	return &submissionUsecase{repo: repo, store: store, limiter: limiter, scanner: scanner}
}

// Submit runs the form checks, resolves the caller, stores the verification
// screenshot and inserts the record. Nothing remote is called until the
// draft is valid and a caller is present; the insert is never retried.
func (u *submissionUsecase) Submit(ctx context.Context, draft *domain.Draft) (*domain.InterviewExperience, error) {
	if err := draft.Validate(); err != nil {
		return nil, apperror.Validation(err)
	}

	identity := domain.IdentityFrom(ctx)
	if identity == nil || identity.UserID == "" {
		return nil, apperror.Validation(domain.ErrSignInToShare)
	}

	file := draft.Verification
	check := security.ValidateImage(file.Filename, file.Data)
	if !check.Valid {
		security.LogEvent(ctx, security.SecurityEvent{
			Event:        security.EventUploadRejected,
			SubjectType:  "user_id",
			SubjectValue: identity.UserID,
			Details:      map[string]interface{}{"reason": check.Error, "detected_mime": check.DetectedMIME},
		})
		return nil, apperror.BadRequest(check.Error)
	}

	if err := u.reserve(ctx, identity.UserID); err != nil {
		return nil, err
	}

	stored, err := u.submit(ctx, identity, draft)
	if err != nil {
		u.release(ctx, identity.UserID)
		return nil, err
	}

	logger.Log.Infow("Experience submitted",
		"experience_id", stored.ID,
		"user_id", identity.UserID,
		"company", stored.Company,
		"questions", len(stored.Questions),
	)
	return stored, nil
}

func (u *submissionUsecase) submit(ctx context.Context, identity *domain.Identity, draft *domain.Draft) (*domain.InterviewExperience, error) {
	file := draft.Verification
	if err := u.scan(ctx, identity.UserID, file); err != nil {
		return nil, err
	}

	path, err := u.storeVerification(ctx, identity.UserID, file)
	if err != nil {
		return nil, err
	}

	record := draft.Record(identity.User())
	record.VerificationPath = &path

	stored, err := u.repo.Insert(ctx, record)
	if err != nil {
		logger.Log.Warnw("Experience insert failed", "user_id", identity.UserID, "error", err)
		return nil, err
	}
	return stored, nil
}

// reserve takes one of the caller's daily upload slots. Limiter errors fail
// open.
func (u *submissionUsecase) reserve(ctx context.Context, userID string) error {
	if u.limiter == nil {
		return nil
	}
	allowed, err := u.limiter.Allow(ctx, userID)
	if err != nil {
		logger.Log.Warnw("Upload limiter unavailable", "error", err)
	}
	if allowed {
		return nil
	}
	security.LogEvent(ctx, security.SecurityEvent{
		Event:        security.EventUploadRejected,
		SubjectType:  "user_id",
		SubjectValue: userID,
		Details:      map[string]interface{}{"reason": "daily_limit"},
	})
	return apperror.TooManyRequests("Too many submissions today, please try again tomorrow")
}

func (u *submissionUsecase) release(ctx context.Context, userID string) {
	if u.limiter == nil {
		return
	}
	if err := u.limiter.Release(ctx, userID); err != nil {
		logger.Log.Warnw("Upload slot release failed", "user_id", userID, "error", err)
	}
}

func (u *submissionUsecase) scan(ctx context.Context, userID string, file *domain.Attachment) error {
	if u.scanner == nil {
		return nil
	}
	res := u.scanner.Scan(ctx, file.Filename, file.Data)
	if res.Error != nil {
		logger.Log.Errorw("Verification scan failed", "user_id", userID, "scanner", res.ScannerName, "error", res.Error)
		return apperror.ServiceUnavailable("Could not scan the verification file, please try again", res.Error)
	}
	if res.Infected {
		security.LogEvent(ctx, security.SecurityEvent{
			Event:        security.EventUploadRejected,
			SubjectType:  "user_id",
			SubjectValue: userID,
			Details:      map[string]interface{}{"reason": "malware", "threat": res.ThreatName},
		})
		return apperror.BadRequest("The verification file was rejected")
	}
	return nil
}

func (u *submissionUsecase) storeVerification(ctx context.Context, userID string, file *domain.Attachment) (string, error) {
	compressed, err := security.CompressImage(file.Data, security.VerificationMaxDimension, security.VerificationJPEGQuality)
	if err != nil {
		return "", apperror.BadRequest("Could not read the verification image")
	}

	key := fmt.Sprintf("%s/%s-%s.jpg", userID, uuid.NewString(), strings.ToLower(security.SanitizeFilename(file.Filename)))
	path, err := u.store.Put(ctx, key, compressed, "image/jpeg")
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return "", appErr
		}
		logger.Log.Errorw("Verification upload failed", "user_id", userID, "error", err)
		return "", apperror.ServiceUnavailable("Failed to upload the verification file", err)
	}
	return path, nil
}
