package app

import (
	"context"
	"io"
	"time"

	"university_line_bot/internal/domain/messaging"
	"university_line_bot/internal/domain/student"
	idb "university_line_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// fakeStudentRepo is an in-memory student.Repository mirroring the
// single-statement semantics of the postgres implementation.
type fakeStudentRepo struct {
	students map[string]*student.Student
	nextID   int64

	upsertErr error
	getErr    error
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[string]*student.Student)}
}

func (r *fakeStudentRepo) UpsertIdentity(_ context.Context, lineUserID string) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	if _, ok := r.students[lineUserID]; ok {
		return nil
	}
	r.nextID++
	r.students[lineUserID] = &student.Student{
		ID:         r.nextID,
		LineUserID: lineUserID,
		CreatedAt:  time.Now(),
	}
	return nil
}

func (r *fakeStudentRepo) GetByLineUserID(_ context.Context, lineUserID string) (*student.Student, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.students[lineUserID]
	if !ok {
		return nil, idb.ErrStudentNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *fakeStudentRepo) SetNationalID(_ context.Context, lineUserID, nationalID string) error {
	s, ok := r.students[lineUserID]
	if !ok || s.NationalID.Valid {
		// Zero rows affected: missing record or write-once guard.
		return nil
	}
	s.NationalID.String = nationalID
	s.NationalID.Valid = true
	return nil
}

func (r *fakeStudentRepo) SetFaculty(_ context.Context, lineUserID, faculty string) error {
	s, ok := r.students[lineUserID]
	if !ok {
		return nil
	}
	s.Faculty.String = faculty
	s.Faculty.Valid = true
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, lineUserID string) error {
	delete(r.students, lineUserID)
	return nil
}

type textReply struct {
	replyToken string
	texts      []string
}

type menuReply struct {
	replyToken string
	intro      string
	menu       messaging.Menu
}

// fakeMessagingClient records every reply sent through it.
type fakeMessagingClient struct {
	textReplies []textReply
	menuReplies []menuReply
	replyErr    error
}

func (c *fakeMessagingClient) ReplyText(_ context.Context, replyToken string, texts ...string) error {
	if c.replyErr != nil {
		return c.replyErr
	}
	c.textReplies = append(c.textReplies, textReply{replyToken: replyToken, texts: texts})
	return nil
}

func (c *fakeMessagingClient) ReplyMenu(_ context.Context, replyToken string, intro string, menu messaging.Menu) error {
	if c.replyErr != nil {
		return c.replyErr
	}
	c.menuReplies = append(c.menuReplies, menuReply{replyToken: replyToken, intro: intro, menu: menu})
	return nil
}

func (c *fakeMessagingClient) replyCount() int {
	return len(c.textReplies) + len(c.menuReplies)
}

type attachedTag struct {
	lineUserID string
	tagID      int64
}

// fakeTagDirectory mints sequential tag identifiers per name and records
// resolve and attach calls.
type fakeTagDirectory struct {
	resolved []string
	attached []attachedTag

	resolveErr error
	attachErr  error

	tagIDs    map[string]int64
	nextTagID int64
}

func (d *fakeTagDirectory) ResolveOrCreateTag(_ context.Context, name string) (int64, error) {
	d.resolved = append(d.resolved, name)
	if d.resolveErr != nil {
		return 0, d.resolveErr
	}
	if d.tagIDs == nil {
		d.tagIDs = make(map[string]int64)
	}
	id, ok := d.tagIDs[name]
	if !ok {
		d.nextTagID++
		id = d.nextTagID
		d.tagIDs[name] = id
	}
	return id, nil
}

func (d *fakeTagDirectory) AttachTag(_ context.Context, lineUserID string, tagID int64) error {
	if d.attachErr != nil {
		return d.attachErr
	}
	d.attached = append(d.attached, attachedTag{lineUserID: lineUserID, tagID: tagID})
	return nil
}

type narrowcastCall struct {
	tagID int64
	text  string
}

// fakeBroadcaster records narrowcast sends.
type fakeBroadcaster struct {
	sent []narrowcastCall
	err  error
}

func (b *fakeBroadcaster) NarrowcastText(_ context.Context, tagID int64, text string) error {
	if b.err != nil {
		return b.err
	}
	b.sent = append(b.sent, narrowcastCall{tagID: tagID, text: text})
	return nil
}
