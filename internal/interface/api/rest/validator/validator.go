package validator

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"filelink-api/internal/domain/file"
	"filelink-api/internal/domain/user"
	"filelink-api/internal/interface/api/rest/dto/auth"
	dtofile "filelink-api/internal/interface/api/rest/dto/file"
)

const (
	maxPasswordLen = 72 // bcrypt safe
	maxFileNameLen = 255
	maxVariants    = 16
	maxSessionKeys = 64
)

var (
	fileIDRe    = regexp.MustCompile(`^` + file.IDPrefix + `[0-9A-F]{12}$`)
	sessionIDRe = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,128}$`)

	ErrInvalidUserID = errors.New("user_id must be a positive integer")
	ErrInvalidFileID = errors.New("file_id is malformed")
)

func ParseUserID(s string) (user.ID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidUserID
	}
	return user.ID(id), nil
}

func IsFileID(s string) bool { return fileIDRe.MatchString(s) }

func IsSessionID(s string) bool { return sessionIDRe.MatchString(s) }

func ValidateUpload(r dtofile.UploadRequest) map[string]string {
	errs := make(map[string]string)

	if r.UserID <= 0 {
		errs["user_id"] = "user_id must be a positive integer"
	}

	switch file.Kind(r.Kind) {
	case file.KindDocument, file.KindVideo, file.KindAudio, file.KindPhoto:
	case "":
		errs["kind"] = "kind is required"
	default:
		errs["kind"] = "unsupported kind, want document|video|audio|photo"
	}

	if utf8.RuneCountInString(r.FileName) > maxFileNameLen {
		errs["file_name"] = "file_name must be at most 255 characters"
	}

	switch {
	case len(r.Variants) == 0:
		errs["variants"] = "at least one variant is required"
	case len(r.Variants) > maxVariants:
		errs["variants"] = "too many variants"
	default:
		for _, v := range r.Variants {
			if strings.TrimSpace(v.TransportFileID) == "" {
				errs["variants"] = "transport_file_id is required for every variant"
				break
			}
			if v.SizeBytes > file.MaxSizeBytes {
				errs["variants"] = "size_bytes is out of range"
				break
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(r.Username) == "" {
		errs["username"] = "username is required"
	}
	if strings.TrimSpace(r.Password) == "" {
		errs["password"] = "password is required"
	} else if utf8.RuneCountInString(r.Password) > maxPasswordLen {
		errs["password"] = "password must be at most 72 characters"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateSessionFields(fields map[string]any) map[string]string {
	if len(fields) > maxSessionKeys {
		return map[string]string{"fields": "too many fields"}
	}
	for k := range fields {
		if k == "" {
			return map[string]string{"fields": "field names must not be empty"}
		}
	}
	return nil
}
