package service

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/desempeno/evaluacion-backend/internal/directory/domain"
	"github.com/desempeno/evaluacion-backend/pkg/errors"
)

// ChangePassword replaces an employee's password after verifying the old one.
// The new password must match its confirmation and differ from the old one.
func (s *DirectoryService) ChangePassword(ctx context.Context, cedula int64, oldPassword, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return errors.BadRequest("errors.password_mismatch")
	}

	employee, err := s.repo.GetByCedula(ctx, cedula)
	if err != nil {
		return err
	}

	if !employee.PasswordHash.Valid ||
		bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash.String), []byte(oldPassword)) != nil {
		return errors.Unauthorized("errors.old_password_incorrect")
	}

	if newPassword == oldPassword {
		return errors.BadRequest("errors.password_same_as_old")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Internal("errors.internal")
	}

	if err := s.repo.UpdatePassword(ctx, cedula, string(hash)); err != nil {
		return err
	}

	s.logger.Info().Int64("cedula", cedula).Msg("password changed")
	return nil
}

// SetSecurityQuestion stores the question id and answer, overwriting any prior pair
func (s *DirectoryService) SetSecurityQuestion(ctx context.Context, cedula int64, questionID, answer string) error {
	if !domain.ValidQuestionID(questionID) {
		return errors.BadRequest("errors.security_question_invalid")
	}
	if strings.TrimSpace(answer) == "" {
		return errors.BadRequest("errors.security_answer_required")
	}

	return s.repo.UpdateSecurityQuestion(ctx, cedula, questionID, strings.TrimSpace(answer))
}

// GetSecurityQuestion resolves the stored question id to its display text.
// An unset question is a not found for the caller; a stored id outside the
// catalog means the row was tampered with and is a server error.
func (s *DirectoryService) GetSecurityQuestion(ctx context.Context, cedula int64) (string, error) {
	employee, err := s.repo.GetByCedula(ctx, cedula)
	if err != nil {
		return "", err
	}

	if !employee.HasSecurityQuestion() {
		return "", errors.NotFoundWithKey("errors.security_question_not_set")
	}

	text, ok := domain.QuestionText(employee.SecurityQuestion.String)
	if !ok {
		s.logger.Error().Int64("cedula", cedula).
			Str("question", employee.SecurityQuestion.String).
			Msg("stored security question outside catalog")
		return "", errors.Internal("errors.security_question_malformed")
	}

	return text, nil
}

// VerifySecurityAnswer compares the supplied answer case-insensitively
// against the stored one.
func (s *DirectoryService) VerifySecurityAnswer(ctx context.Context, cedula int64, answer string) (bool, error) {
	employee, err := s.repo.GetByCedula(ctx, cedula)
	if err != nil {
		return false, err
	}

	if !employee.SecurityAnswer.Valid || employee.SecurityAnswer.String == "" {
		return false, errors.NotFoundWithKey("errors.security_question_not_set")
	}

	match := strings.EqualFold(
		strings.TrimSpace(employee.SecurityAnswer.String),
		strings.TrimSpace(answer),
	)
	return match, nil
}

// ResetPassword overwrites the password after checking the policy.
// It deliberately does not verify the security answer itself: clients
// call verify_security_answer first and then this endpoint, and keeping
// the two steps separate preserves that contract.
func (s *DirectoryService) ResetPassword(ctx context.Context, cedula int64, newPassword string) error {
	if err := ValidatePasswordPolicy(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Internal("errors.internal")
	}

	if err := s.repo.UpdatePassword(ctx, cedula, string(hash)); err != nil {
		return err
	}

	s.logger.Info().Int64("cedula", cedula).Msg("password reset")
	return nil
}

// ValidatePasswordPolicy enforces the minimum password requirements:
// at least 8 characters with at least one letter and one digit.
func ValidatePasswordPolicy(password string) error {
	if len(password) < 8 {
		return errors.BadRequest("errors.password_policy")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return errors.BadRequest("errors.password_policy")
	}

	return nil
}
