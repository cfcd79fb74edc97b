package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/leon37/SnapFeed/internal/infrastructure/storage"
	"github.com/leon37/SnapFeed/internal/model"
	"github.com/leon37/SnapFeed/internal/repository"
	"gorm.io/gorm"
)

// PostInput 发帖参数
type PostInput struct {
	Title   string
	Content string
	UserID  uint
}

// PostUpdate 部分更新参数，nil 表示字段未出现
type PostUpdate struct {
	Title   *string
	Content *string
	UserID  *uint
}

// PostService 帖子 CRUD
type PostService struct {
	postRepo repository.PostRepo
	userRepo repository.UserRepo
	store    storage.Store
}

func NewPostService(postRepo repository.PostRepo, userRepo repository.UserRepo, store storage.Store) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo, store: store}
}

// List 返回全部帖子，最近更新的排前面，带作者公开信息
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) Get(ctx context.Context, id uint) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

// Create 发帖。user_id 必须指向已存在的用户，否则整体失败且不落库
func (s *PostService) Create(ctx context.Context, input PostInput, image *Upload) (*model.Post, error) {
	fields := make(map[string]string)
	if strings.TrimSpace(input.Content) == "" {
		fields["content"] = "The content field is required."
	}
	if input.UserID == 0 {
		fields["user_id"] = "The user id field is required."
	} else {
		exists, err := s.userRepo.Exists(ctx, input.UserID)
		if err != nil {
			return nil, err
		}
		if !exists {
			fields["user_id"] = "The selected user id is invalid."
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var imageURL *string
	if image != nil {
		url, err := saveUpload(ctx, s.store, postImagePrefix, image)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	post := &model.Post{
		Title:   input.Title,
		Content: input.Content,
		Image:   imageURL,
		UserID:  input.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update 部分更新。换图和换头像同一套纪律：先写新对象，行更新成功后再删旧的
func (s *PostService) Update(ctx context.Context, id uint, upd PostUpdate, image *Upload) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fields := make(map[string]string)
	if upd.Content != nil && strings.TrimSpace(*upd.Content) == "" {
		fields["content"] = "The content field is required."
	}
	if upd.UserID != nil {
		exists, err := s.userRepo.Exists(ctx, *upd.UserID)
		if err != nil {
			return nil, err
		}
		if !exists {
			fields["user_id"] = "The selected user id is invalid."
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var oldImage *string
	if image != nil {
		url, err := saveUpload(ctx, s.store, postImagePrefix, image)
		if err != nil {
			return nil, err
		}
		oldImage = post.Image
		post.Image = &url
	}

	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Content != nil {
		post.Content = *upd.Content
	}
	if upd.UserID != nil {
		post.UserID = *upd.UserID
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if oldImage != nil {
		if err := s.store.DeleteByURL(ctx, *oldImage); err != nil {
			slog.Warn("删除帖子旧图失败", "url", *oldImage, "error", err)
		}
	}
	return post, nil
}

// Delete 删帖。媒体对象清理是尽力而为，删不掉不影响接口结果
func (s *PostService) Delete(ctx context.Context, id uint) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	if post.Image != nil {
		if err := s.store.DeleteByURL(ctx, *post.Image); err != nil {
			slog.Warn("删除帖子图片失败", "post_id", id, "url", *post.Image, "error", err)
		}
	}
	return nil
}
