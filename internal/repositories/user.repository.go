package repositories

import (
	"carelink/internal/database"
	. "carelink/internal/models"
	"context"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

const (
	USER_CACHE_EXPIRY            = 24 * time.Hour
	USER_CACHE_PREFIX            = "user:"
	SUBJECT_MAPPING_CACHE_PREFIX = "subject:"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByAuthSubject(ctx context.Context, subject string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

type userRepository struct {
	db  database.DB
	log logger.Logger
}

func NewUserRepository(db database.DB) UserRepository {
	return &userRepository{
		db:  db,
		log: logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	cacheKey := USER_CACHE_PREFIX + id.String()
	found, err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).WithContext(ctx).Get(&user)
	if err != nil {
		log.Warn("failed to get user from cache", "userID", id, "error", err)
	}
	if found {
		return &user, nil
	}

	if err := r.db.SQLWithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}

	r.addToCache(ctx, &user)

	return &user, nil
}

func (r *userRepository) GetByAuthSubject(ctx context.Context, subject string) (*User, error) {
	log := r.log.Function("GetByAuthSubject")

	var user User
	cacheKey := SUBJECT_MAPPING_CACHE_PREFIX + subject
	found, err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).WithContext(ctx).Get(&user)
	if err != nil {
		log.Warn("failed to get subject mapping from cache", "subject", subject, "error", err)
	}
	if found {
		return &user, nil
	}

	if err := r.db.SQLWithContext(ctx).First(&user, "auth_subject = ?", subject).Error; err != nil {
		return nil, err
	}

	if err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).
		WithStruct(&user).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache subject mapping", "subject", subject, "error", err)
	}

	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	r.clearCache(ctx, user)

	return nil
}

func (r *userRepository) addToCache(ctx context.Context, user *User) {
	cacheKey := USER_CACHE_PREFIX + user.ID.String()
	if err := database.NewCacheBuilder(r.db.Cache.User, cacheKey).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		r.log.Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}
}

func (r *userRepository) clearCache(ctx context.Context, user *User) {
	log := r.log.Function("clearCache")

	userCacheKey := USER_CACHE_PREFIX + user.ID.String()
	if err := database.NewCacheBuilder(r.db.Cache.User, userCacheKey).WithContext(ctx).Delete(); err != nil {
		log.Warn("failed to clear user cache", "userID", user.ID, "error", err)
	}

	if user.AuthSubject != "" {
		subjectCacheKey := SUBJECT_MAPPING_CACHE_PREFIX + user.AuthSubject
		if err := database.NewCacheBuilder(r.db.Cache.User, subjectCacheKey).WithContext(ctx).Delete(); err != nil {
			log.Warn("failed to clear subject mapping cache", "userID", user.ID, "error", err)
		}
	}
}
