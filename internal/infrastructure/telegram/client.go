// Package telegram is the transport collaborator: it answers who the service
// account is and whether a user is a member of the force-subscribe channel.
// File bytes never pass through here.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"filelink-api/config"
	"filelink-api/internal/domain"
	"filelink-api/internal/domain/access"
	"filelink-api/internal/domain/user"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func New(cfg config.Bot, logger *zap.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram: bot token is required")
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &http.Transport{MaxIdleConnsPerHost: 10},
		},
		baseURL: strings.TrimRight(cfg.APIURL, "/") + "/bot" + cfg.Token,
		logger:  logger.With(zap.String("component", "telegram_client")),
	}, nil
}

type apiResponse[T any] struct {
	OK          bool   `json:"ok"`
	Result      T      `json:"result"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

type apiError struct {
	Code        int
	Description string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("telegram api error %d: %s", e.Code, e.Description)
}

func call[T any](ctx context.Context, c *Client, method string, params url.Values) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+method+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return zero, fmt.Errorf("telegram %s: %w", method, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()

	var body apiResponse[T]
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return zero, fmt.Errorf("telegram %s: decode response (status %d): %w", method, resp.StatusCode, err)
	}
	if !body.OK {
		return zero, &apiError{Code: body.ErrorCode, Description: body.Description}
	}

	return body.Result, nil
}

type botUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ServiceHandle returns the bot username used in deep links.
func (c *Client) ServiceHandle(ctx context.Context) (string, error) {
	me, err := call[botUser](ctx, c, "getMe", url.Values{})
	if err != nil {
		return "", err
	}
	if me.Username == "" {
		return "", errors.New("telegram getMe: empty username")
	}
	return me.Username, nil
}

type chatMember struct {
	Status   string `json:"status"`
	IsMember bool   `json:"is_member"`
}

// ResolveMembership never reports Unknown without an error wrapping
// domain.ErrMembershipCheckFailed.
func (c *Client) ResolveMembership(ctx context.Context, channel string, userID user.ID) (access.Membership, error) {
	params := url.Values{}
	params.Set("chat_id", channel)
	params.Set("user_id", strconv.FormatInt(int64(userID), 10))

	start := time.Now()
	m, err := call[chatMember](ctx, c, "getChatMember", params)
	if err != nil {
		var ae *apiError
		// Telegram answers 400 "user not found" for users who never joined.
		if errors.As(err, &ae) && ae.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(ae.Description), "user not found") {
			return access.NotMember, nil
		}
		c.logger.Warn("membership lookup failed",
			zap.String("channel", channel),
			zap.Int64("user_id", int64(userID)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return access.MembershipUnknown, fmt.Errorf("%w: %w", domain.ErrMembershipCheckFailed, err)
	}

	membership := membershipFromStatus(m)
	if membership == access.MembershipUnknown {
		return membership, fmt.Errorf("%w: unexpected member status %q", domain.ErrMembershipCheckFailed, m.Status)
	}
	return membership, nil
}

func membershipFromStatus(m chatMember) access.Membership {
	switch m.Status {
	case "creator", "administrator", "member":
		return access.Member
	case "restricted":
		if m.IsMember {
			return access.Member
		}
		return access.NotMember
	case "left", "kicked":
		return access.NotMember
	default:
		return access.MembershipUnknown
	}
}
