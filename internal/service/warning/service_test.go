package warning

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarogyacheck/clearance-api/internal/document"
	"github.com/aarogyacheck/clearance-api/internal/email"
	"github.com/aarogyacheck/clearance-api/internal/model"
	apperrors "github.com/aarogyacheck/clearance-api/pkg/errors"
	"github.com/aarogyacheck/clearance-api/pkg/logger"
	"github.com/aarogyacheck/clearance-api/pkg/metrics"
)

type fakeTravelerRepo struct {
	travelers map[uuid.UUID]*model.DisapprovedTraveler
	marked    map[uuid.UUID]string
}

func newFakeTravelerRepo(travelers ...*model.DisapprovedTraveler) *fakeTravelerRepo {
	repo := &fakeTravelerRepo{
		travelers: map[uuid.UUID]*model.DisapprovedTraveler{},
		marked:    map[uuid.UUID]string{},
	}
	for _, t := range travelers {
		repo.travelers[t.ID] = t
	}
	return repo
}

func (f *fakeTravelerRepo) Get(ctx context.Context, id uuid.UUID) (*model.DisapprovedTraveler, error) {
	return f.travelers[id], nil
}

func (f *fakeTravelerRepo) GetByNationalID(ctx context.Context, nationalID string) (*model.DisapprovedTraveler, error) {
	for _, t := range f.travelers {
		if t.NationalID == nationalID {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTravelerRepo) List(ctx context.Context) ([]*model.DisapprovedTraveler, error) {
	out := make([]*model.DisapprovedTraveler, 0, len(f.travelers))
	for _, t := range f.travelers {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTravelerRepo) MarkQRGenerated(ctx context.Context, id uuid.UUID, payload string) error {
	f.marked[id] = payload
	f.travelers[id].QRGenerated = true
	f.travelers[id].QRPayload = payload
	return nil
}

type fakeMailer struct {
	attachments []email.Attachment
	recipients  []string
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	f.recipients = append(f.recipients, to)
	return nil
}

func (f *fakeMailer) SendWithAttachment(ctx context.Context, to, subject, body string, attachment email.Attachment) error {
	f.recipients = append(f.recipients, to)
	f.attachments = append(f.attachments, attachment)
	return nil
}

func (f *fakeMailer) SendWithFile(ctx context.Context, to, subject, body, path string) error {
	f.recipients = append(f.recipients, to)
	return nil
}

func testTraveler() *model.DisapprovedTraveler {
	return &model.DisapprovedTraveler{
		ID:                   uuid.New(),
		ApplicationID:        uuid.New(),
		Name:                 "Sita Devi",
		NationalID:           "987654321098",
		Email:                "sita@example.com",
		Phone:                "9876543210",
		CurrentAddress:       "12 MG Road, Pune",
		DiseaseName:          "Tuberculosis",
		Tier:                 2,
		ExpectedRecoveryDate: "2024-06-01",
		DoctorID:             "doctor1",
	}
}

func newTestService(repo *fakeTravelerRepo, mailer *fakeMailer) *Service {
	m := metrics.NewMetricsWith("test_warning", prometheus.NewRegistry())
	return NewService(repo, mailer, document.NewGenerator(), logger.NewLogger(nil), m)
}

func TestIssueUnknownTraveler(t *testing.T) {
	svc := newTestService(newFakeTravelerRepo(), &fakeMailer{})

	err := svc.Issue(context.Background(), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestIssueMarksRecordAndSendsNotice(t *testing.T) {
	traveler := testTraveler()
	repo := newFakeTravelerRepo(traveler)
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)

	require.NoError(t, svc.Issue(context.Background(), traveler.ID))

	wantPayload, err := document.WarningQRPayload(traveler)
	require.NoError(t, err)
	assert.Equal(t, string(wantPayload), repo.marked[traveler.ID],
		"persisted payload must match the bytes rendered into the document")

	require.Len(t, mailer.attachments, 1)
	assert.Equal(t, "health_warning_987654321098.pdf", mailer.attachments[0].Name)
	assert.True(t, bytes.HasPrefix(mailer.attachments[0].Data, []byte("%PDF")))
	assert.Equal(t, []string{"sita@example.com"}, mailer.recipients)
}

func TestReissueIsDeterministicOverUnchangedState(t *testing.T) {
	traveler := testTraveler()
	repo := newFakeTravelerRepo(traveler)
	svc := newTestService(repo, &fakeMailer{})

	require.NoError(t, svc.Issue(context.Background(), traveler.ID))
	first := repo.marked[traveler.ID]

	require.NoError(t, svc.Issue(context.Background(), traveler.ID))
	assert.Equal(t, first, repo.marked[traveler.ID])
}

func TestLetterDoesNotTouchIssuanceState(t *testing.T) {
	traveler := testTraveler()
	repo := newFakeTravelerRepo(traveler)
	svc := newTestService(repo, &fakeMailer{})

	doc, filename, err := svc.Letter(context.Background(), traveler.ID)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
	assert.Equal(t, "health_warning_987654321098.pdf", filename)
	assert.Empty(t, repo.marked)
	assert.False(t, traveler.QRGenerated)
}

func TestLetterForNationalIDRequiresIssuance(t *testing.T) {
	traveler := testTraveler()
	repo := newFakeTravelerRepo(traveler)
	svc := newTestService(repo, &fakeMailer{})

	_, _, err := svc.LetterForNationalID(context.Background(), traveler.NationalID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound), "letter must not exist before issuance")

	require.NoError(t, svc.Issue(context.Background(), traveler.ID))

	doc, _, err := svc.LetterForNationalID(context.Background(), traveler.NationalID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestListSummaries(t *testing.T) {
	traveler := testTraveler()
	svc := newTestService(newFakeTravelerRepo(traveler), &fakeMailer{})

	summaries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, traveler.NationalID, summaries[0].NationalID)
	assert.False(t, summaries[0].QRGenerated)
}
