package repository

import (
	"context"

	"github.com/leon37/SnapFeed/internal/model"
	"gorm.io/gorm"
)

// PostRepo 定义接口 (为了方便 Mock)
type PostRepo interface {
	Create(ctx context.Context, post *model.Post) error
	// GetByID 带作者信息返回，找不到返回 gorm.ErrRecordNotFound
	GetByID(ctx context.Context, id uint) (*model.Post, error)
	// List 按最近更新时间倒序返回所有帖子，带作者信息
	List(ctx context.Context) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &postRepo{db: db}
}

func (r *postRepo) Create(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	// 返回给前端的 post 要带作者字段
	return r.db.WithContext(ctx).First(&post.User, post.UserID).Error
}

func (r *postRepo) GetByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("updated_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepo) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Post{}, id).Error
}
