package account

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/storage"
	"github.com/aarogyacheck/clearance-api/pkg/auth"
	apperrors "github.com/aarogyacheck/clearance-api/pkg/errors"
	"github.com/aarogyacheck/clearance-api/pkg/logger"
	"github.com/aarogyacheck/clearance-api/pkg/security"
)

type fakeDoctorRepo struct {
	accounts map[string]*model.DoctorAccount
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{accounts: map[string]*model.DoctorAccount{}}
}

func (f *fakeDoctorRepo) Create(ctx context.Context, account *model.DoctorAccount) error {
	f.accounts[account.DoctorID] = account
	return nil
}

func (f *fakeDoctorRepo) Get(ctx context.Context, doctorID string) (*model.DoctorAccount, error) {
	return f.accounts[doctorID], nil
}

func newTestService(t *testing.T, doctors *fakeDoctorRepo) *Service {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir(), []string{"pdf", "png", "jpg"})
	require.NoError(t, err)
	return NewService(
		doctors,
		security.NewBcryptHasher(4),
		auth.NewStaticVerifier(map[string]string{"legacy-doc": "legacypass"}),
		auth.NewStaticVerifier(map[string]string{"official1": "offpass1"}),
		auth.NewStaticVerifier(map[string]string{"admin1": "adminpass1"}),
		auth.NewStaticVerifier(map[string]string{"authority1": "authpass1"}),
		files,
		logger.NewLogger(nil),
	)
}

func uploadedCard(t *testing.T, filename string, size int) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("verification_card", filename)
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("x"), size))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(int64(size) + 10240)
	require.NoError(t, err)
	return form.File["verification_card"][0]
}

func TestVerifyDoctorPrefersProvisionedAccounts(t *testing.T) {
	doctors := newFakeDoctorRepo()
	svc := newTestService(t, doctors)

	require.NoError(t, svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{
		DoctorID: "doctor9",
		Password: "secret99",
	}, "official1"))

	assert.NoError(t, svc.VerifyDoctor(context.Background(), "doctor9", "secret99"))

	err := svc.VerifyDoctor(context.Background(), "doctor9", "wrongpass")
	assert.True(t, apperrors.Is(err, apperrors.ErrAuth))
}

func TestVerifyDoctorFallsBackToStaticTable(t *testing.T) {
	svc := newTestService(t, newFakeDoctorRepo())

	assert.NoError(t, svc.VerifyDoctor(context.Background(), "legacy-doc", "legacypass"))

	err := svc.VerifyDoctor(context.Background(), "unknown-doc", "whatever")
	assert.True(t, apperrors.Is(err, apperrors.ErrAuth))
}

func TestCreateDoctorRejectsDuplicates(t *testing.T) {
	svc := newTestService(t, newFakeDoctorRepo())

	req := &model.CreateDoctorRequest{DoctorID: "doctor9", Password: "secret99"}
	require.NoError(t, svc.CreateDoctor(context.Background(), req, "official1"))

	err := svc.CreateDoctor(context.Background(), req, "official1")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestSeedDoctorsSkipsExisting(t *testing.T) {
	doctors := newFakeDoctorRepo()
	svc := newTestService(t, doctors)

	require.NoError(t, svc.CreateDoctor(context.Background(), &model.CreateDoctorRequest{
		DoctorID: "doctor1",
		Password: "provisioned",
	}, "official1"))
	hash := doctors.accounts["doctor1"].PasswordHash

	require.NoError(t, svc.SeedDoctors(context.Background(), map[string]string{
		"doctor1": "docpass1",
		"doctor2": "docpass2",
	}))

	assert.Equal(t, hash, doctors.accounts["doctor1"].PasswordHash, "seeding must not overwrite")
	assert.Contains(t, doctors.accounts, "doctor2")
	assert.NoError(t, svc.VerifyDoctor(context.Background(), "doctor2", "docpass2"))
}

func TestVerifyOfficialRequiresCard(t *testing.T) {
	svc := newTestService(t, newFakeDoctorRepo())

	err := svc.VerifyOfficial(context.Background(), "official1", "offpass1", nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestVerifyOfficialRejectsBadCardFormat(t *testing.T) {
	svc := newTestService(t, newFakeDoctorRepo())

	card := uploadedCard(t, "card.exe", 2048)
	err := svc.VerifyOfficial(context.Background(), "official1", "offpass1", card)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestVerifyOfficialRejectsTinyCard(t *testing.T) {
	svc := newTestService(t, newFakeDoctorRepo())

	card := uploadedCard(t, "card.png", 100)
	err := svc.VerifyOfficial(context.Background(), "official1", "offpass1", card)
	assert.True(t, apperrors.Is(err, apperrors.ErrAuth))
}

func TestVerifyOfficialHappyPath(t *testing.T) {
	svc := newTestService(t, newFakeDoctorRepo())

	card := uploadedCard(t, "card.png", 2048)
	assert.NoError(t, svc.VerifyOfficial(context.Background(), "official1", "offpass1", card))

	card = uploadedCard(t, "card.png", 2048)
	err := svc.VerifyOfficial(context.Background(), "official1", "wrongpass", card)
	assert.True(t, apperrors.Is(err, apperrors.ErrAuth))
}

func TestVerifySharedSecretRoles(t *testing.T) {
	svc := newTestService(t, newFakeDoctorRepo())

	assert.NoError(t, svc.VerifyHealthAdmin(context.Background(), "admin1", "adminpass1"))
	assert.True(t, apperrors.Is(svc.VerifyHealthAdmin(context.Background(), "admin1", "nope"), apperrors.ErrAuth))

	assert.NoError(t, svc.VerifyAuthority(context.Background(), "authority1", "authpass1"))
	assert.True(t, apperrors.Is(svc.VerifyAuthority(context.Background(), "intruder", "authpass1"), apperrors.ErrAuth))
}
