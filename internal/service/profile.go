package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/leon37/SnapFeed/internal/infrastructure/storage"
	"github.com/leon37/SnapFeed/internal/model"
	"github.com/leon37/SnapFeed/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput 注册参数。Gender 保留表单原始值，校验阶段再解析
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Gender   string
	Phone    string
}

// UserUpdate 部分更新参数。nil 表示请求里没有这个字段，保持原值。
// 密码字段额外区分"出现但为空串"：空串同样不修改
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Gender   *string
	Phone    *string
}

// ProfileService 用户注册 / 查询 / 编辑
type ProfileService struct {
	userRepo repository.UserRepo
	store    storage.Store
}

func NewProfileService(userRepo repository.UserRepo, store storage.Store) *ProfileService {
	return &ProfileService{userRepo: userRepo, store: store}
}

// Register 创建用户。头像先写入媒体存储，写失败则整个注册失败，
// 不产生没有头像的半成品用户
func (s *ProfileService) Register(ctx context.Context, input RegisterInput, image *Upload) (*model.User, error) {
	fields := validateRegister(input)
	if fields == nil {
		taken, err := s.userRepo.EmailTaken(ctx, input.Email, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			fields = map[string]string{"email": "The email has already been taken."}
		}
	}
	if fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var imageURL *string
	if image != nil {
		url, err := saveUpload(ctx, s.store, avatarPrefix, image)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	gender, _ := strconv.ParseBool(input.Gender) // 校验阶段已确认可解析

	user := &model.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hash),
		Gender:   gender,
		Phone:    input.Phone,
		Image:    imageURL,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *ProfileService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser 部分更新。换头像时先写新对象、行更新成功后再删旧对象，
// 新上传失败不会弄丢原头像
func (s *ProfileService) UpdateUser(ctx context.Context, id uint, upd UserUpdate, image *Upload) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fields := validateUserUpdate(upd)
	if fields == nil && upd.Email != nil {
		taken, err := s.userRepo.EmailTaken(ctx, *upd.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			fields = map[string]string{"email": "The email has already been taken."}
		}
	}
	if fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	var oldImage *string
	if image != nil {
		url, err := saveUpload(ctx, s.store, avatarPrefix, image)
		if err != nil {
			return nil, err
		}
		oldImage = user.Image
		user.Image = &url
	}

	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Password != nil && *upd.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hash)
	}
	if upd.Gender != nil {
		gender, _ := strconv.ParseBool(*upd.Gender)
		user.Gender = gender
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// 行已落库，旧头像可以删了。删失败只记日志
	if oldImage != nil {
		if err := s.store.DeleteByURL(ctx, *oldImage); err != nil {
			slog.Warn("删除旧头像失败", "url", *oldImage, "error", err)
		}
	}
	return user, nil
}
