package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"university_line_bot/internal/domain/messaging"
	"university_line_bot/internal/domain/student"
	idb "university_line_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Postback payloads understood by the bot. Anything else is silently ignored.
const (
	postbackRegister      = "action=register"
	postbackFacultyPrefix = "faculty="
)

// User-facing texts, in Thai like the rest of the bot's conversation surface.
const (
	welcomeText = "ยินดีต้อนรับสู่ LINE Official Account ของมหาวิทยาลัย!\nกรุณาลงทะเบียนเพื่อรับข่าวสารที่เกี่ยวข้องกับคณะของคุณ"

	registerMenuTitle = "ลงทะเบียนนักศึกษา"
	registerMenuText  = "กรุณาลงทะเบียนเพื่อรับข่าวสารที่เกี่ยวข้องกับคณะของคุณ"
	registerLabel     = "ลงทะเบียน"

	nationalIDPromptText = "กรุณากรอกเลขบัตรประชาชน 13 หลักของคุณ"

	facultyMenuTitle = "เลือกคณะของคุณ"

	registrationConfirmedFormat = "ลงทะเบียนสำเร็จ! คุณได้ลงทะเบียนกับ%sเรียบร้อยแล้ว"

	notRegisteredText = "กรุณาลงทะเบียนก่อนใช้งาน"
	genericReplyText  = "ขอบคุณสำหรับข้อความ กรุณาเลือกเมนูด้านล่างเพื่อใช้งานระบบ"
)

// RegistrationService is the registration state machine: it interprets
// inbound platform events against the current student record and decides the
// next reply and/or store mutation.
type RegistrationService struct {
	students student.Repository
	client   messaging.Client
	tags     messaging.TagDirectory
	logger   *logrus.Entry
}

func NewRegistrationService(
	sr student.Repository,
	mc messaging.Client,
	td messaging.TagDirectory,
	logger *logrus.Entry,
) *RegistrationService {
	return &RegistrationService{
		students: sr,
		client:   mc,
		tags:     td,
		logger:   logger,
	}
}

// HandleFollow ensures a student record exists and replies with the welcome
// message plus the register button. This is unconditional: a re-follow from a
// known user re-sends the prompt without resetting any stored data.
func (s *RegistrationService) HandleFollow(ctx context.Context, lineUserID, replyToken string) error {
	logCtx := s.logger.WithFields(logrus.Fields{"event": "follow", "line_user_id": lineUserID})

	if err := s.students.UpsertIdentity(ctx, lineUserID); err != nil {
		logCtx.WithError(err).Error("Failed to upsert student identity")
		return fmt.Errorf("failed to upsert student identity: %w", err)
	}
	logCtx.Info("Student identity ensured")

	menu := messaging.Menu{
		AltText: registerMenuTitle,
		Title:   registerMenuTitle,
		Text:    registerMenuText,
		Buttons: []messaging.Button{{Label: registerLabel, Data: postbackRegister}},
	}
	if err := s.client.ReplyMenu(ctx, replyToken, welcomeText, menu); err != nil {
		logCtx.WithError(err).Error("Failed to send welcome reply")
		return fmt.Errorf("failed to send welcome reply: %w", err)
	}
	return nil
}

// HandleUnfollow hard-deletes the student record. A later follow starts over
// with a fresh record; the prior national ID and faculty are gone.
func (s *RegistrationService) HandleUnfollow(ctx context.Context, lineUserID string) error {
	logCtx := s.logger.WithFields(logrus.Fields{"event": "unfollow", "line_user_id": lineUserID})

	if err := s.students.Delete(ctx, lineUserID); err != nil {
		logCtx.WithError(err).Error("Failed to delete student record")
		return fmt.Errorf("failed to delete student record: %w", err)
	}
	logCtx.Info("Student record deleted")
	return nil
}

// HandlePostback routes a postback payload. Recognized payloads are the
// register action and a faculty selection; anything else produces no reply
// and no mutation.
func (s *RegistrationService) HandlePostback(ctx context.Context, lineUserID, replyToken, data string) error {
	logCtx := s.logger.WithFields(logrus.Fields{"event": "postback", "line_user_id": lineUserID})

	switch {
	case data == postbackRegister:
		// Re-prompting is allowed at any state; the store is not touched.
		if err := s.client.ReplyText(ctx, replyToken, nationalIDPromptText); err != nil {
			logCtx.WithError(err).Error("Failed to send national ID prompt")
			return fmt.Errorf("failed to send national ID prompt: %w", err)
		}
		return nil
	case strings.HasPrefix(data, postbackFacultyPrefix):
		faculty := strings.TrimPrefix(data, postbackFacultyPrefix)
		return s.selectFaculty(ctx, logCtx, lineUserID, replyToken, faculty)
	default:
		logCtx.WithField("data", data).Debug("Ignoring unrecognized postback payload")
		return nil
	}
}

// selectFaculty records the chosen faculty, tags the user on the platform
// and confirms. The faculty is overwritten even for fully registered users,
// which is how a student changes faculty.
func (s *RegistrationService) selectFaculty(ctx context.Context, logCtx *logrus.Entry, lineUserID, replyToken, faculty string) error {
	logCtx = logCtx.WithField("faculty", faculty)

	if !student.IsValidFaculty(faculty) {
		// Payloads outside the faculty enum never reach the store. No reply
		// either: there is nothing sensible to say to a forged postback.
		logCtx.Warn("Ignoring postback with unknown faculty")
		return nil
	}

	// A missing record makes this a zero-row update, deliberately silent
	// (postback before follow, or a race right after unfollow).
	if err := s.students.SetFaculty(ctx, lineUserID, faculty); err != nil {
		logCtx.WithError(err).Error("Failed to set faculty")
		return fmt.Errorf("failed to set faculty: %w", err)
	}
	logCtx.Info("Faculty recorded")

	// Tag the user so faculty-scoped narrowcasts reach them. Best effort: a
	// tagging failure is logged but must not block the confirmation reply.
	tagID, err := s.tags.ResolveOrCreateTag(ctx, faculty)
	if err != nil {
		logCtx.WithError(err).Error("Failed to resolve faculty tag")
	} else if err := s.tags.AttachTag(ctx, lineUserID, tagID); err != nil {
		logCtx.WithError(err).Error("Failed to attach faculty tag to user")
	}

	confirmation := fmt.Sprintf(registrationConfirmedFormat, faculty)
	if err := s.client.ReplyText(ctx, replyToken, confirmation); err != nil {
		logCtx.WithError(err).Error("Failed to send registration confirmation")
		return fmt.Errorf("failed to send registration confirmation: %w", err)
	}
	return nil
}

// HandleTextMessage processes free text. The only text with a special
// meaning is a valid national ID from a user who has not submitted one yet;
// everything else gets the generic acknowledgement.
func (s *RegistrationService) HandleTextMessage(ctx context.Context, lineUserID, replyToken, text string) error {
	logCtx := s.logger.WithFields(logrus.Fields{"event": "message", "line_user_id": lineUserID})

	current, err := s.students.GetByLineUserID(ctx, lineUserID)
	if err != nil {
		if errors.Is(err, idb.ErrStudentNotFound) {
			// Text from a user without a record (e.g. message before follow).
			if err := s.client.ReplyText(ctx, replyToken, notRegisteredText); err != nil {
				logCtx.WithError(err).Error("Failed to send not-registered reply")
				return fmt.Errorf("failed to send not-registered reply: %w", err)
			}
			return nil
		}
		logCtx.WithError(err).Error("Failed to load student record")
		return fmt.Errorf("failed to load student record: %w", err)
	}

	if current.State() == student.StateAwaitingNationalID && student.IsValidNationalID(text) {
		if err := s.students.SetNationalID(ctx, lineUserID, text); err != nil {
			logCtx.WithError(err).Error("Failed to set national ID")
			return fmt.Errorf("failed to set national ID: %w", err)
		}
		logCtx.Info("National ID recorded")

		if err := s.client.ReplyMenu(ctx, replyToken, "", facultyMenu()); err != nil {
			logCtx.WithError(err).Error("Failed to send faculty selection menu")
			return fmt.Errorf("failed to send faculty selection menu: %w", err)
		}
		return nil
	}

	// Covers malformed IDs, repeated submissions once the ID is set (the
	// write-once rule) and any other free text at any state.
	if err := s.client.ReplyText(ctx, replyToken, genericReplyText); err != nil {
		logCtx.WithError(err).Error("Failed to send generic reply")
		return fmt.Errorf("failed to send generic reply: %w", err)
	}
	return nil
}

// facultyMenu builds the selection menu with one postback button per faculty.
func facultyMenu() messaging.Menu {
	buttons := make([]messaging.Button, 0, len(student.Faculties))
	for _, f := range student.Faculties {
		buttons = append(buttons, messaging.Button{Label: f, Data: postbackFacultyPrefix + f})
	}
	return messaging.Menu{
		AltText: facultyMenuTitle,
		Title:   facultyMenuTitle,
		Buttons: buttons,
	}
}
