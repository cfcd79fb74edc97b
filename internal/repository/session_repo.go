package repository

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis"
)

// ErrSessionNotFound 会话不存在（未登录或已退出）
var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:"

// SessionRepo 管理登录会话。每次登录写入一条，退出只删除当次携带的那条，
// 同一用户其他会话不受影响
type SessionRepo interface {
	Save(jti string, userID uint, ttl time.Duration) error
	Get(jti string) (uint, error)
	Delete(jti string) error
}

type sessionRepo struct {
	client *redis.Client
}

func NewSessionRepo(client *redis.Client) SessionRepo {
	return &sessionRepo{client: client}
}

func (r *sessionRepo) Save(jti string, userID uint, ttl time.Duration) error {
	return r.client.Set(sessionKeyPrefix+jti, strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

func (r *sessionRepo) Get(jti string) (uint, error) {
	val, err := r.client.Get(sessionKeyPrefix + jti).Result()
	if err == redis.Nil {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (r *sessionRepo) Delete(jti string) error {
	return r.client.Del(sessionKeyPrefix + jti).Err()
}
