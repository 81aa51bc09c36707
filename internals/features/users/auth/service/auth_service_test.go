package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"afrikticket_backend/internals/constants"
	"afrikticket_backend/internals/databases/dbtest"
	orgService "afrikticket_backend/internals/features/organizations/organization/service"
	authModel "afrikticket_backend/internals/features/users/auth/model"
	userModel "afrikticket_backend/internals/features/users/user/model"
	helperAuth "afrikticket_backend/internals/helpers/auth"
	"afrikticket_backend/internals/helpers/storage"
)

type fakeGoogle struct {
	ident *GoogleIdentity
	err   error
}

func (f fakeGoogle) Verify(string) (*GoogleIdentity, error) { return f.ident, f.err }

// failingStore accepts `ok` puts and then refuses.
type failingStore struct {
	*storage.MemoryStore
	ok int
}

func (f *failingStore) Put(ctx context.Context, bucket, filename string, data []byte, ct string) (string, error) {
	if f.ok == 0 {
		return "", errors.New("bucket unavailable")
	}
	f.ok--
	return f.MemoryStore.Put(ctx, bucket, filename, data, ct)
}

func newService(t *testing.T, db *gorm.DB, store storage.Store) *AuthService {
	t.Helper()
	t.Setenv("BCRYPT_COST", "4")
	return &AuthService{
		DB:            db,
		Store:         store,
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		Now:           time.Now,
	}
}

func doc(name string) *storage.File {
	return &storage.File{Filename: name, ContentType: "application/pdf", Data: []byte("%PDF-1.4 test")}
}

func orgInput(email string) RegisterInput {
	return RegisterInput{
		Name:             "Awa Traore",
		Email:            email,
		Password:         "supersecret",
		Role:             constants.RoleOrganization,
		OrgName:          "Festival Bamako",
		OrgEmail:         "contact@festival.ml",
		OrgPhone:         "+22370000000",
		IcdDocument:      doc("icd.pdf"),
		CommerceRegister: doc("rccm.pdf"),
	}
}

func TestRegisterUserThenLogin(t *testing.T) {
	db := dbtest.Open(t)
	svc := newService(t, db, storage.NewMemoryStore())

	u, err := svc.Register(context.Background(), RegisterInput{
		Name: "Kofi Mensah", Email: "Kofi@Example.com ", Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != constants.RoleUser || u.Status != constants.UserStatusActive || u.Email != "kofi@example.com" {
		t.Fatalf("unexpected user %+v", u)
	}

	res, err := svc.Login(context.Background(), "kofi@example.com", "supersecret", ClientMeta{IP: "127.0.0.1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := helperAuth.ParseSession(res.AccessToken, helperAuth.TokenTypeAccess, "access-secret")
	if err != nil {
		t.Fatalf("access token: %v", err)
	}
	if claims.Subject != u.ID.String() || claims.Role != constants.RoleUser {
		t.Fatalf("claims = %+v", claims)
	}

	var n int64
	db.Model(&authModel.RefreshToken{}).Where("token_hash = ?", helperAuth.HmacHex(res.RefreshToken, "refresh-secret")).Count(&n)
	if n != 1 {
		t.Fatal("refresh token hash not stored")
	}

	if _, err := svc.Login(context.Background(), "kofi@example.com", "wrong-password", ClientMeta{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{Name: "Again", Email: "kofi@example.com", Password: "supersecret"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: %v", err)
	}
}

func TestPendingOrganizationCannotLoginUntilApproved(t *testing.T) {
	db := dbtest.Open(t)
	store := storage.NewMemoryStore()
	svc := newService(t, db, store)

	u, err := svc.Register(context.Background(), orgInput("awa@festival.ml"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Status != constants.UserStatusPending || u.Organization == nil || u.Organization.OrganizationStatus != constants.OrganizationStatusPending {
		t.Fatalf("organization account should start pending: %+v", u)
	}
	if store.Len() != 2 {
		t.Fatalf("expected both documents stored, got %d", store.Len())
	}

	if _, err := svc.Login(context.Background(), "awa@festival.ml", "supersecret", ClientMeta{}); !errors.Is(err, ErrAccountNotActivated) {
		t.Fatalf("pending login: %v", err)
	}

	if _, err := orgService.NewOrganizationService(db).UpdateStatus(context.Background(), u.Organization.OrganizationID, constants.OrganizationStatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	res, err := svc.Login(context.Background(), "awa@festival.ml", "supersecret", ClientMeta{})
	if err != nil {
		t.Fatalf("login after approval: %v", err)
	}
	if res.User.Status != constants.UserStatusActive || res.User.Organization == nil {
		t.Fatalf("login user = %+v", res.User)
	}
}

func TestRegisterOrganizationValidation(t *testing.T) {
	db := dbtest.Open(t)
	svc := newService(t, db, storage.NewMemoryStore())

	in := orgInput("a@b.com")
	in.CommerceRegister = nil
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrDocumentsRequired) {
		t.Fatalf("missing document: %v", err)
	}

	in = orgInput("a@b.com")
	in.Role = constants.RoleAdmin
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrRoleNotAllowed) {
		t.Fatalf("admin self-registration: %v", err)
	}

	in = orgInput("a@b.com")
	in.Password = "short"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short password: %v", err)
	}
}

func TestRegisterCleansUpUploadsOnFailure(t *testing.T) {
	db := dbtest.Open(t)
	store := &failingStore{MemoryStore: storage.NewMemoryStore(), ok: 1}
	svc := newService(t, db, store)

	if _, err := svc.Register(context.Background(), orgInput("x@y.com")); err == nil {
		t.Fatal("expected storage failure")
	}
	if store.Len() != 0 {
		t.Fatalf("orphaned blobs left behind: %d", store.Len())
	}
	var n int64
	db.Model(&userModel.UserModel{}).Where("email = ?", "x@y.com").Count(&n)
	if n != 0 {
		t.Fatal("user row created despite failed upload")
	}
}

func TestSuspendedUserCannotLogin(t *testing.T) {
	db := dbtest.Open(t)
	svc := newService(t, db, storage.NewMemoryStore())
	u := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusSuspended)

	if _, err := svc.Login(context.Background(), u.Email, dbtest.Password, ClientMeta{}); !errors.Is(err, ErrAccountSuspended) {
		t.Fatalf("suspended login: %v", err)
	}
}

func TestRefreshRotatesOnce(t *testing.T) {
	db := dbtest.Open(t)
	svc := newService(t, db, storage.NewMemoryStore())
	u := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusActive)

	first, err := svc.Login(context.Background(), u.Email, dbtest.Password, ClientMeta{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	second, err := svc.Refresh(context.Background(), first.RefreshToken, ClientMeta{})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}
	if _, err := svc.Refresh(context.Background(), first.RefreshToken, ClientMeta{}); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("reused refresh token: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), second.AccessToken, ClientMeta{}); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("access token used as refresh: %v", err)
	}
}

func TestLogoutBlacklistsAndRevokes(t *testing.T) {
	db := dbtest.Open(t)
	svc := newService(t, db, storage.NewMemoryStore())
	u := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusActive)

	res, err := svc.Login(context.Background(), u.Email, dbtest.Password, ClientMeta{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(context.Background(), res.AccessToken, res.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	// twice is fine
	if err := svc.Logout(context.Background(), res.AccessToken, res.RefreshToken); err != nil {
		t.Fatalf("second logout: %v", err)
	}

	black, err := helperAuth.IsBlacklisted(context.Background(), db, res.AccessToken, "access-secret")
	if err != nil || !black {
		t.Fatalf("access token not blacklisted: %v %v", black, err)
	}
	if _, err := svc.Refresh(context.Background(), res.RefreshToken, ClientMeta{}); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("refresh after logout: %v", err)
	}
}

func TestGoogleLogin(t *testing.T) {
	db := dbtest.Open(t)
	svc := newService(t, db, storage.NewMemoryStore())

	sub := uuid.NewString()
	svc.Google = fakeGoogle{ident: &GoogleIdentity{Sub: sub, Email: "ama@gmail.com", Name: "Ama"}}
	res, err := svc.LoginGoogle(context.Background(), "id-token", ClientMeta{})
	if err != nil {
		t.Fatalf("google login: %v", err)
	}
	if res.User.Role != constants.RoleUser || res.User.GoogleID == nil || *res.User.GoogleID != sub {
		t.Fatalf("google user = %+v", res.User)
	}

	// second sign-in finds the same account
	again, err := svc.LoginGoogle(context.Background(), "id-token", ClientMeta{})
	if err != nil || again.User.ID != res.User.ID {
		t.Fatalf("second google login: %v", err)
	}

	owner, _ := dbtest.CreateOrganization(t, db, constants.OrganizationStatusApproved)
	svc.Google = fakeGoogle{ident: &GoogleIdentity{Sub: uuid.NewString(), Email: owner.Email}}
	if _, err := svc.LoginGoogle(context.Background(), "id-token", ClientMeta{}); !errors.Is(err, ErrGoogleRole) {
		t.Fatalf("organization via google: %v", err)
	}

	svc.Google = nil
	if _, err := svc.LoginGoogle(context.Background(), "id-token", ClientMeta{}); !errors.Is(err, ErrGoogleDisabled) {
		t.Fatalf("disabled google: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	db := dbtest.Open(t)
	svc := newService(t, db, storage.NewMemoryStore())
	u := dbtest.CreateUser(t, db, constants.RoleUser, constants.UserStatusActive)
	admin := dbtest.CreateUser(t, db, constants.RoleAdmin, constants.UserStatusActive)
	self := helperAuth.Actor{UserID: u.ID, Role: constants.RoleUser}

	if err := svc.ChangePassword(context.Background(), helperAuth.Actor{UserID: admin.ID, Role: constants.RoleAdmin}, u.ID, dbtest.Password, "newpassword1", ""); !errors.Is(err, helperAuth.ErrSelfOnly) {
		t.Fatalf("admin changing someone else's password: %v", err)
	}
	if err := svc.ChangePassword(context.Background(), self, u.ID, "not-it", "newpassword1", ""); !errors.Is(err, ErrCurrentPassword) {
		t.Fatalf("wrong current password: %v", err)
	}
	if err := svc.ChangePassword(context.Background(), self, u.ID, dbtest.Password, "short", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short password: %v", err)
	}

	session, err := svc.Login(context.Background(), u.Email, dbtest.Password, ClientMeta{})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.ChangePassword(context.Background(), self, u.ID, dbtest.Password, "newpassword1", "newpassword1"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := svc.Login(context.Background(), u.Email, "newpassword1", ClientMeta{}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), session.RefreshToken, ClientMeta{}); !errors.Is(err, ErrInvalidRefresh) {
		t.Fatalf("old session survived password change: %v", err)
	}
}
