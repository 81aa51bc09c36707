package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"afrikticket_backend/internals/configs"
	"afrikticket_backend/internals/constants"
	database "afrikticket_backend/internals/databases"
	orgModel "afrikticket_backend/internals/features/organizations/organization/model"
	authModel "afrikticket_backend/internals/features/users/auth/model"
	authRepo "afrikticket_backend/internals/features/users/auth/repository"
	userModel "afrikticket_backend/internals/features/users/user/model"
	helper "afrikticket_backend/internals/helpers"
	helperAuth "afrikticket_backend/internals/helpers/auth"
	"afrikticket_backend/internals/helpers/storage"
)

var (
	ErrEmailTaken          = fiber.NewError(fiber.StatusBadRequest, "Email already registered")
	ErrInvalidCredentials  = fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	ErrAccountNotActivated = fiber.NewError(fiber.StatusForbidden, "Account not activated or pending approval")
	ErrAccountSuspended    = fiber.NewError(fiber.StatusForbidden, "Account suspended")
	ErrRoleNotAllowed      = fiber.NewError(fiber.StatusBadRequest, "Role must be user or organization")
	ErrDocumentsRequired   = fiber.NewError(fiber.StatusBadRequest, "Organization registration requires org_icd_document and org_commerce_register")
	ErrOrganizationFields  = fiber.NewError(fiber.StatusBadRequest, "Organization registration requires org_name, org_email and org_phone")
	ErrInvalidRefresh      = fiber.NewError(fiber.StatusUnauthorized, "Invalid refresh token")
	ErrGoogleDisabled      = fiber.NewError(fiber.StatusBadRequest, "Google sign-in is not configured")
	ErrGoogleToken         = fiber.NewError(fiber.StatusUnauthorized, "Invalid Google ID Token")
	ErrGoogleRole          = fiber.NewError(fiber.StatusForbidden, "Google sign-in is only available for user accounts")
)

type AuthService struct {
	DB     *gorm.DB
	Store  storage.Store
	Google GoogleVerifier

	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	Now func() time.Time
}

func NewAuthService(db *gorm.DB, store storage.Store) *AuthService {
	return &AuthService{
		DB:            db,
		Store:         store,
		Google:        NewGoogleVerifier(configs.GoogleClientID),
		AccessSecret:  configs.JWTSecret,
		RefreshSecret: configs.JWTRefreshSecret,
		AccessTTL:     configs.AccessTokenTTL,
		RefreshTTL:    configs.RefreshTokenTTL,
		Now:           time.Now,
	}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

/* ==========================
   REGISTER
========================== */

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    *string

	OrgName        string
	OrgEmail       string
	OrgPhone       string
	OrgDescription *string

	ProfileImage     *storage.File
	IcdDocument      *storage.File
	CommerceRegister *storage.File
}

// Register creates the account, and for role=organization its pending
// organization in the same transaction. Files are stored first; if the
// transaction fails they are removed again.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*userModel.UserModel, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if in.Role == "" {
		in.Role = constants.RoleUser
	}
	if in.Role != constants.RoleUser && in.Role != constants.RoleOrganization {
		return nil, ErrRoleNotAllowed
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	isOrg := in.Role == constants.RoleOrganization
	if isOrg {
		if strings.TrimSpace(in.OrgName) == "" || strings.TrimSpace(in.OrgEmail) == "" || strings.TrimSpace(in.OrgPhone) == "" {
			return nil, ErrOrganizationFields
		}
		if in.IcdDocument == nil || in.CommerceRegister == nil {
			return nil, ErrDocumentsRequired
		}
	}

	if _, err := authRepo.FindUserByEmail(s.DB.WithContext(ctx), in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &userModel.UserModel{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Password: hash,
		Role:     in.Role,
		Phone:    in.Phone,
		Status:   constants.UserStatusActive,
	}
	if isOrg {
		user.Status = constants.UserStatusPending
	}
	if err := user.Validate(); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	// uploads stay outside the transaction
	var stored []string
	if in.ProfileImage != nil {
		p, err := storage.PutImage(ctx, s.Store, storage.BucketProfileImages, in.ProfileImage)
		if err != nil {
			return nil, err
		}
		stored = append(stored, p)
		user.ProfileImage = &p
	}
	var org *orgModel.OrganizationModel
	if isOrg {
		icd, err := storage.PutDocument(ctx, s.Store, storage.BucketOrgDocuments, in.IcdDocument)
		if err != nil {
			storage.Cleanup(context.WithoutCancel(ctx), s.Store, stored...)
			return nil, err
		}
		stored = append(stored, icd)
		reg, err := storage.PutDocument(ctx, s.Store, storage.BucketOrgDocuments, in.CommerceRegister)
		if err != nil {
			storage.Cleanup(context.WithoutCancel(ctx), s.Store, stored...)
			return nil, err
		}
		stored = append(stored, reg)

		org = &orgModel.OrganizationModel{
			OrganizationName:             strings.TrimSpace(in.OrgName),
			OrganizationEmail:            strings.ToLower(strings.TrimSpace(in.OrgEmail)),
			OrganizationPhone:            strings.TrimSpace(in.OrgPhone),
			OrganizationDescription:      in.OrgDescription,
			OrganizationStatus:           constants.OrganizationStatusPending,
			OrganizationIcdDocument:      &icd,
			OrganizationCommerceRegister: &reg,
		}
	}

	err = database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		user.ID = uuid.Nil
		if err := authRepo.CreateUser(tx, user); err != nil {
			if helper.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		if org != nil {
			org.OrganizationID = uuid.Nil
			org.OrganizationUserID = user.ID
			if err := tx.Create(org).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		storage.Cleanup(context.WithoutCancel(ctx), s.Store, stored...)
		return nil, err
	}

	user.Organization = org
	log.Printf("[Register] %s role=%s status=%s", user.Email, user.Role, user.Status)
	return user, nil
}

/* ==========================
   LOGIN
========================== */

type ClientMeta struct {
	UserAgent string
	IP        string
}

type LoginResult struct {
	User             *userModel.UserModel
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

func (s *AuthService) Login(ctx context.Context, email, password string, meta ClientMeta) (*LoginResult, error) {
	db := s.DB.WithContext(ctx)
	user, err := authRepo.FindUserByEmail(db, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := CheckPasswordHash(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.ensureCanSignIn(db, user); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user.ID, meta)
}

// ensureCanSignIn: suspended accounts never; organization owners only once
// their organization is approved.
func (s *AuthService) ensureCanSignIn(db *gorm.DB, user *userModel.UserModel) error {
	if user.Status == constants.UserStatusSuspended {
		return ErrAccountSuspended
	}
	if user.Role == constants.RoleOrganization {
		var org orgModel.OrganizationModel
		err := db.Where("organization_user_id = ?", user.ID).First(&org).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotActivated
		}
		if err != nil {
			return err
		}
		if org.OrganizationStatus != constants.OrganizationStatusApproved {
			return ErrAccountNotActivated
		}
	}
	if user.Status != constants.UserStatusActive {
		return ErrAccountNotActivated
	}
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID, meta ClientMeta) (*LoginResult, error) {
	user, err := authRepo.FindUserWithProfiles(s.DB.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	access, accessExp, err := helperAuth.SignSession(helperAuth.TokenTypeAccess, user.ID, user.Role, user.Name, s.AccessSecret, s.AccessTTL, now)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := helperAuth.SignSession(helperAuth.TokenTypeRefresh, user.ID, "", "", s.RefreshSecret, s.RefreshTTL, now)
	if err != nil {
		return nil, err
	}

	if err := authRepo.CreateRefreshToken(s.DB.WithContext(ctx), &authModel.RefreshToken{
		UserID:    user.ID,
		TokenHash: helperAuth.HmacHex(refresh, s.RefreshSecret),
		ExpiresAt: refreshExp,
		UserAgent: strptr(meta.UserAgent),
		IP:        strptr(meta.IP),
	}); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:             user,
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

/* ==========================
   LOGIN GOOGLE
========================== */

// LoginGoogle signs in (or signs up) a plain user account from a Google ID token.
func (s *AuthService) LoginGoogle(ctx context.Context, idToken string, meta ClientMeta) (*LoginResult, error) {
	if s.Google == nil {
		return nil, ErrGoogleDisabled
	}
	ident, err := s.Google.Verify(idToken)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return nil, fe
		}
		log.Printf("[GoogleLogin] verify failed: %v", err)
		return nil, ErrGoogleToken
	}

	db := s.DB.WithContext(ctx)
	user, err := authRepo.FindUserByGoogleID(db, ident.Sub)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.linkOrCreateGoogleUser(ctx, ident)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if user.Role != constants.RoleUser {
		return nil, ErrGoogleRole
	}
	if err := s.ensureCanSignIn(db, user); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user.ID, meta)
}

func (s *AuthService) linkOrCreateGoogleUser(ctx context.Context, ident *GoogleIdentity) (*userModel.UserModel, error) {
	db := s.DB.WithContext(ctx)
	existing, err := authRepo.FindUserByEmail(db, ident.Email)
	if err == nil {
		if existing.Role != constants.RoleUser {
			return nil, ErrGoogleRole
		}
		if err := db.Model(existing).Update("google_id", ident.Sub).Error; err != nil {
			return nil, err
		}
		existing.GoogleID = &ident.Sub
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(ident.Name)
	if name == "" {
		name = strings.Split(ident.Email, "@")[0]
	}
	sub := ident.Sub
	user := &userModel.UserModel{
		Name:     name,
		Email:    strings.ToLower(ident.Email),
		Password: hash,
		GoogleID: &sub,
		Role:     constants.RoleUser,
		Status:   constants.UserStatusActive,
	}
	if err := authRepo.CreateUser(db, user); err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	log.Printf("[GoogleLogin] created user %s", user.Email)
	return user, nil
}

/* ==========================
   REFRESH
========================== */

// Refresh rotates the refresh token: the presented one is revoked and a new
// pair is issued. A token can be rotated only once.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string, meta ClientMeta) (*LoginResult, error) {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return nil, ErrInvalidRefresh
	}
	claims, err := helperAuth.ParseSession(rawRefresh, helperAuth.TokenTypeRefresh, s.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	userID, _ := claims.UserID()
	hash := helperAuth.HmacHex(rawRefresh, s.RefreshSecret)
	now := s.now()

	err = database.WithRetry(ctx, s.DB, func(tx *gorm.DB) error {
		rt, err := authRepo.FindActiveRefreshToken(tx, hash, now)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidRefresh
		}
		if err != nil {
			return err
		}
		if rt.UserID != userID {
			return ErrInvalidRefresh
		}
		revoked, err := authRepo.RevokeRefreshToken(tx, hash, now)
		if err != nil {
			return err
		}
		if !revoked {
			return ErrInvalidRefresh
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user, err := authRepo.FindUserByID(s.DB.WithContext(ctx), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidRefresh
	}
	if err != nil {
		return nil, err
	}
	if err := s.ensureCanSignIn(s.DB.WithContext(ctx), user); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user.ID, meta)
}

/* ==========================
   LOGOUT
========================== */

// Logout blacklists the access token until its own expiry and revokes the
// refresh token. Idempotent; missing tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, rawAccess, rawRefresh string) error {
	rawAccess = strings.TrimSpace(rawAccess)
	if rawAccess != "" {
		expiresAt := s.now().Add(s.AccessTTL)
		if claims, err := helperAuth.ParseSession(rawAccess, helperAuth.TokenTypeAccess, s.AccessSecret); err == nil && claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time.Add(time.Minute)
		}
		if err := helperAuth.BlacklistToken(ctx, s.DB, rawAccess, s.AccessSecret, expiresAt); err != nil {
			return err
		}
	}
	if rawRefresh = strings.TrimSpace(rawRefresh); rawRefresh != "" {
		if _, err := authRepo.RevokeRefreshToken(s.DB.WithContext(ctx), helperAuth.HmacHex(rawRefresh, s.RefreshSecret), s.now()); err != nil {
			return err
		}
	}
	return nil
}

/* ==========================
   ME
========================== */

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*userModel.UserModel, error) {
	user, err := authRepo.FindUserWithProfiles(s.DB.WithContext(ctx), userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return user, err
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
