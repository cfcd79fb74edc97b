package service

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"
)

const minPasswordLength = 8

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// validateRegister 注册字段全量校验，返回 字段->提示 的映射
func validateRegister(input RegisterInput) map[string]string {
	fields := make(map[string]string)

	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "The name field is required."
	}
	if strings.TrimSpace(input.Email) == "" {
		fields["email"] = "The email field is required."
	} else if !validEmail(input.Email) {
		fields["email"] = "The email must be a valid email address."
	}
	if input.Password == "" {
		fields["password"] = "The password field is required."
	} else if len(input.Password) < minPasswordLength {
		fields["password"] = "The password must be at least 8 characters."
	}
	if input.Gender == "" {
		fields["gender"] = "The gender field is required."
	} else if _, err := strconv.ParseBool(input.Gender); err != nil {
		fields["gender"] = "The gender field must be true or false."
	}
	if input.Phone == "" {
		fields["phone"] = "The phone field is required."
	} else if !phonePattern.MatchString(input.Phone) {
		fields["phone"] = "The phone format is invalid."
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// validateUserUpdate 只校验请求里出现的字段
func validateUserUpdate(upd UserUpdate) map[string]string {
	fields := make(map[string]string)

	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		fields["name"] = "The name field is required."
	}
	if upd.Email != nil && !validEmail(*upd.Email) {
		fields["email"] = "The email must be a valid email address."
	}
	// 密码特殊：出现但为空串 == 不修改，所以空串不报错也不校验长度
	if upd.Password != nil && *upd.Password != "" && len(*upd.Password) < minPasswordLength {
		fields["password"] = "The password must be at least 8 characters."
	}
	if upd.Gender != nil {
		if _, err := strconv.ParseBool(*upd.Gender); err != nil {
			fields["gender"] = "The gender field must be true or false."
		}
	}
	if upd.Phone != nil && !phonePattern.MatchString(*upd.Phone) {
		fields["phone"] = "The phone format is invalid."
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}
