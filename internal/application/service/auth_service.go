package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/internal/domain/repository"
	"github.com/sangkips/storefront-api/pkg/apperror"
	"github.com/sangkips/storefront-api/pkg/oauth"
	"github.com/sangkips/storefront-api/pkg/utils"
	"go.uber.org/zap"
)

// ownerRoleName is the RBAC role given to whoever registers a shop
const ownerRoleName = "admin"

// GoogleAuthenticator exchanges a Google OAuth code for the user's profile
type GoogleAuthenticator interface {
	IsConfigured() bool
	GetAuthURL(state string) string
	Authenticate(ctx context.Context, code string) (*oauth.GoogleUserInfo, error)
}

// AuthService handles authentication-related operations
type AuthService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	tenantRepo repository.TenantRepository
	tenants    *TenantService
	tx         repository.Transactor
	jwtManager *utils.JWTManager
	google     GoogleAuthenticator
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tenantRepo repository.TenantRepository,
	tenants *TenantService,
	tx repository.Transactor,
	jwtManager *utils.JWTManager,
	google GoogleAuthenticator,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		tenantRepo: tenantRepo,
		tenants:    tenants,
		tx:         tx,
		jwtManager: jwtManager,
		google:     google,
		logger:     logger,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User         *entity.User
	TenantID     uuid.UUID
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user.ID)
}

// RegisterInput represents the registration input
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	ShopName  string
}

// Register creates a user together with their own shop, owned by them
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.User, error) {
	emailAddr := normalizeEmail(input.Email)
	existingUser, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Username:  emailAddr,
		Email:     emailAddr,
		Password:  hashedPassword,
		Provider:  "local",
	}

	shopName := strings.TrimSpace(input.ShopName)
	if shopName == "" {
		shopName = user.FullName() + "'s Shop"
	}

	if err := s.createWithShop(ctx, user, shopName); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	return s.issueTokens(ctx, userID)
}

// GetCurrentUser returns the current user by ID
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ChangePasswordInput represents the change password input
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// ChangePassword changes the user's password
func (s *AuthService) ChangePassword(ctx context.Context, input *ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return apperror.NewBadRequestError("Current password is incorrect")
	}

	hashedPassword, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return s.userRepo.Update(ctx, user)
}

// GoogleAuthURL returns the consent page URL for state
func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return "", apperror.NewAppError(503, "Google login is not configured")
	}
	return s.google.GetAuthURL(state), nil
}

// GoogleLogin signs a user in with a Google authorization code. An unknown
// email is registered with its own shop.
func (s *AuthService) GoogleLogin(ctx context.Context, code string) (*LoginOutput, error) {
	if s.google == nil || !s.google.IsConfigured() {
		return nil, apperror.NewAppError(503, "Google login is not configured")
	}

	info, err := s.google.Authenticate(ctx, code)
	if err != nil {
		s.logger.Warn("google authentication failed", zap.Error(err))
		return nil, apperror.ErrUnauthorized
	}

	emailAddr := normalizeEmail(info.Email)
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}

	if user == nil {
		first, last := info.Names()
		providerID := info.ID
		user = &entity.User{
			FirstName:  first,
			LastName:   last,
			Username:   emailAddr,
			Email:      emailAddr,
			Provider:   "google",
			ProviderID: &providerID,
		}
		if info.Picture != "" {
			photo := info.Picture
			user.Photo = &photo
		}
		if err := s.createWithShop(ctx, user, user.FullName()+"'s Shop"); err != nil {
			return nil, err
		}
		s.logger.Info("user registered with google", zap.String("user_id", user.ID.String()))
	}

	return s.issueTokens(ctx, user.ID)
}

// createWithShop stores user, their shop, the owner membership and the
// owner role in one transaction.
func (s *AuthService) createWithShop(ctx context.Context, user *entity.User, shopName string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}

		if _, err := s.tenants.CreateTenant(ctx, &CreateTenantInput{
			Name:    shopName,
			Slug:    uniqueSlug(shopName),
			OwnerID: user.ID,
		}); err != nil {
			return err
		}

		role, err := s.roleRepo.GetByName(ctx, ownerRoleName)
		if err != nil {
			return err
		}
		if role == nil {
			s.logger.Warn("owner role missing, run the seed", zap.String("role", ownerRoleName))
			return nil
		}
		return s.userRepo.AssignRole(ctx, user.ID, role.ID)
	})
}

// issueTokens signs tokens for the user, scoped to their first shop
func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID) (*LoginOutput, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken
	}

	tenants, err := s.tenantRepo.GetUserTenants(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	tenantID := uuid.Nil
	if len(tenants) > 0 {
		tenantID = tenants[0].ID
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, tenantID, user.Email, user.GetRoleNames(), user.GetPermissions())
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		User:         user,
		TenantID:     tenantID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtManager.AccessTokenExpiry().Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// uniqueSlug suffixes the shop's slug so two shops with the same name can coexist
func uniqueSlug(name string) string {
	return utils.Slugify(name) + "-" + strings.ToLower(uuid.New().String()[:6])
}
