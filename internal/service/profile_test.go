package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: "secret12",
		Gender:   "true",
		Phone:    "1234567890",
	}
}

func newUpload(content string) *Upload {
	return &Upload{
		Filename: "pic.png",
		Size:     int64(len(content)),
		Reader:   strings.NewReader(content),
	}
}

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := NewProfileService(users, newFakeStore())

		user, err := svc.Register(context.Background(), validRegisterInput(), nil)
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if user.ID == 0 {
			t.Fatal("expected assigned user ID")
		}

		// 库里存的是 bcrypt 哈希，不是明文
		if user.Password == "secret12" {
			t.Fatal("password stored in plaintext")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret12")); err != nil {
			t.Fatalf("stored hash does not verify: %v", err)
		}

		// 序列化结果里不能出现密码哈希
		data, err := json.Marshal(user)
		if err != nil {
			t.Fatalf("marshal user: %v", err)
		}
		if strings.Contains(string(data), user.Password) || strings.Contains(string(data), "password") {
			t.Fatalf("password leaked in JSON: %s", data)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := NewProfileService(users, newFakeStore())
		ctx := context.Background()

		if _, err := svc.Register(ctx, validRegisterInput(), nil); err != nil {
			t.Fatalf("first register: %v", err)
		}
		_, err := svc.Register(ctx, validRegisterInput(), nil)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := ve.Fields["email"]; !ok {
			t.Fatalf("expected email field error, got %v", ve.Fields)
		}
	})

	t.Run("field validation", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*RegisterInput)
			field  string
		}{
			{"short password", func(in *RegisterInput) { in.Password = "short" }, "password"},
			{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
			{"bad phone", func(in *RegisterInput) { in.Phone = "12345" }, "phone"},
			{"bad gender", func(in *RegisterInput) { in.Gender = "maybe" }, "gender"},
			{"missing name", func(in *RegisterInput) { in.Name = " " }, "name"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				users := newFakeUserRepo()
				svc := NewProfileService(users, newFakeStore())
				in := validRegisterInput()
				tc.mutate(&in)

				_, err := svc.Register(context.Background(), in, nil)
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if _, ok := ve.Fields[tc.field]; !ok {
					t.Fatalf("expected %s field error, got %v", tc.field, ve.Fields)
				}
			})
		}
	})

	// 头像写失败注册整体失败，不产生用户
	t.Run("image store failure fails closed", func(t *testing.T) {
		users := newFakeUserRepo()
		store := newFakeStore()
		store.failSave = true
		svc := NewProfileService(users, store)

		_, err := svc.Register(context.Background(), validRegisterInput(), newUpload("img"))
		if err == nil {
			t.Fatal("expected error")
		}
		if exists, _ := users.EmailTaken(context.Background(), "a@x.com", 0); exists {
			t.Fatal("user row created despite image failure")
		}
	})

	t.Run("with image", func(t *testing.T) {
		users := newFakeUserRepo()
		store := newFakeStore()
		svc := NewProfileService(users, store)

		user, err := svc.Register(context.Background(), validRegisterInput(), newUpload("img"))
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if user.Image == nil || *user.Image != store.saved[0] {
			t.Fatalf("expected image URL %v, got %v", store.saved, user.Image)
		}
	})
}

func TestGetUser(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewProfileService(users, newFakeStore())

	if _, err := svc.GetUser(context.Background(), 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	register := func(t *testing.T, store *fakeStore) (*ProfileService, uint) {
		t.Helper()
		users := newFakeUserRepo()
		svc := NewProfileService(users, store)
		user, err := svc.Register(context.Background(), validRegisterInput(), nil)
		if err != nil {
			t.Fatalf("seed register: %v", err)
		}
		return svc, user.ID
	}

	t.Run("not found", func(t *testing.T) {
		svc := NewProfileService(newFakeUserRepo(), newFakeStore())
		_, err := svc.UpdateUser(context.Background(), 99, UserUpdate{}, nil)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	// 只传 name，其余字段保持原值
	t.Run("partial update", func(t *testing.T) {
		svc, id := register(t, newFakeStore())
		name := "X"
		user, err := svc.UpdateUser(context.Background(), id, UserUpdate{Name: &name}, nil)
		if err != nil {
			t.Fatalf("UpdateUser: %v", err)
		}
		if user.Name != "X" {
			t.Fatalf("expected name X, got %q", user.Name)
		}
		if user.Email != "a@x.com" || user.Phone != "1234567890" || user.Gender != true {
			t.Fatalf("untouched fields changed: %+v", user)
		}
	})

	// 密码传空串等于不修改，这是回归点：空串绝不能覆盖原哈希
	t.Run("empty password keeps hash", func(t *testing.T) {
		svc, id := register(t, newFakeStore())
		before, _ := svc.GetUser(context.Background(), id)

		empty := ""
		user, err := svc.UpdateUser(context.Background(), id, UserUpdate{Password: &empty}, nil)
		if err != nil {
			t.Fatalf("UpdateUser: %v", err)
		}
		if user.Password != before.Password {
			t.Fatal("empty password overwrote stored hash")
		}
	})

	t.Run("non-empty password rehashed", func(t *testing.T) {
		svc, id := register(t, newFakeStore())
		before, _ := svc.GetUser(context.Background(), id)

		pw := "newsecret9"
		user, err := svc.UpdateUser(context.Background(), id, UserUpdate{Password: &pw}, nil)
		if err != nil {
			t.Fatalf("UpdateUser: %v", err)
		}
		if user.Password == before.Password {
			t.Fatal("password hash not updated")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(pw)); err != nil {
			t.Fatalf("new hash does not verify: %v", err)
		}
	})

	// 邮箱唯一性检查要排除本人
	t.Run("own email allowed", func(t *testing.T) {
		svc, id := register(t, newFakeStore())
		email := "a@x.com"
		if _, err := svc.UpdateUser(context.Background(), id, UserUpdate{Email: &email}, nil); err != nil {
			t.Fatalf("updating to own email should pass, got %v", err)
		}
	})

	t.Run("taken email rejected", func(t *testing.T) {
		users := newFakeUserRepo()
		svc := NewProfileService(users, newFakeStore())
		ctx := context.Background()
		if _, err := svc.Register(ctx, validRegisterInput(), nil); err != nil {
			t.Fatalf("register A: %v", err)
		}
		inB := validRegisterInput()
		inB.Email = "b@x.com"
		b, err := svc.Register(ctx, inB, nil)
		if err != nil {
			t.Fatalf("register B: %v", err)
		}

		email := "a@x.com"
		_, err = svc.UpdateUser(ctx, b.ID, UserUpdate{Email: &email}, nil)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := ve.Fields["email"]; !ok {
			t.Fatalf("expected email field error, got %v", ve.Fields)
		}
	})

	// 换头像：先写新对象，更新成功后才删旧对象
	t.Run("image replaced new-before-old", func(t *testing.T) {
		users := newFakeUserRepo()
		store := newFakeStore()
		svc := NewProfileService(users, store)
		ctx := context.Background()

		user, err := svc.Register(ctx, validRegisterInput(), newUpload("v1"))
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		oldURL := *user.Image

		updated, err := svc.UpdateUser(ctx, user.ID, UserUpdate{}, newUpload("v2"))
		if err != nil {
			t.Fatalf("UpdateUser: %v", err)
		}
		if *updated.Image == oldURL {
			t.Fatal("image URL not replaced")
		}
		wantOps := []string{"save:" + oldURL, "save:" + *updated.Image, "delete:" + oldURL}
		if len(store.ops) != 3 || store.ops[0] != wantOps[0] || store.ops[1] != wantOps[1] || store.ops[2] != wantOps[2] {
			t.Fatalf("wrong op order: %v, want %v", store.ops, wantOps)
		}
	})

	// 新图写失败：行不更新，旧图也不删
	t.Run("failed upload keeps old image", func(t *testing.T) {
		users := newFakeUserRepo()
		store := newFakeStore()
		svc := NewProfileService(users, store)
		ctx := context.Background()

		user, err := svc.Register(ctx, validRegisterInput(), newUpload("v1"))
		if err != nil {
			t.Fatalf("register: %v", err)
		}

		store.failSave = true
		if _, err := svc.UpdateUser(ctx, user.ID, UserUpdate{}, newUpload("v2")); err == nil {
			t.Fatal("expected error")
		}

		got, _ := svc.GetUser(ctx, user.ID)
		if got.Image == nil || *got.Image != store.saved[0] {
			t.Fatalf("old image lost: %v", got.Image)
		}
		if len(store.deleted) != 0 {
			t.Fatalf("old image deleted despite failed upload: %v", store.deleted)
		}
	})
}
