package indexing

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
	indexing "google.golang.org/api/indexing/v3"
)

// Notification types accepted by the Indexing API.
const (
	TypeURLUpdated = "URL_UPDATED"
	TypeURLDeleted = "URL_DELETED"
)

// PermissionHint explains how to fix the common 403 on this endpoint.
const PermissionHint = "The Indexing API requires the service account or user to be a verified owner " +
	"of the property, and is restricted to job posting and broadcast event pages. " +
	"Verify ownership in Search Console and check API access in the Google Cloud console."

// PublishResult is the outcome of a URL notification submission.
type PublishResult struct {
	Permitted  bool   `json:"permitted"`
	URL        string `json:"url"`
	Type       string `json:"type"`
	NotifyTime string `json:"notifyTime,omitempty"`
	Hint       string `json:"hint,omitempty"`
}

// Client wraps the Indexing API service for one account.
type Client struct {
	svc     *indexing.Service
	account string
}

// NewClient creates a Client around an authenticated service.
func NewClient(svc *indexing.Service, account string) *Client {
	return &Client{svc: svc, account: account}
}

// Account returns the account id this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// ValidType reports whether t is an accepted notification type.
func ValidType(t string) bool {
	return t == TypeURLUpdated || t == TypeURLDeleted
}

// Publish submits a URL notification. A 403 from the API is returned as
// a non-permitted result rather than an error; anything else fails the
// call.
func (c *Client) Publish(ctx context.Context, url, notificationType string) (*PublishResult, error) {
	if !ValidType(notificationType) {
		return nil, fmt.Errorf("invalid notification type %q (must be %s or %s)",
			notificationType, TypeURLUpdated, TypeURLDeleted)
	}

	resp, err := c.svc.UrlNotifications.Publish(&indexing.UrlNotification{
		Url:  url,
		Type: notificationType,
	}).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 403 {
			return &PublishResult{
				Permitted: false,
				URL:       url,
				Type:      notificationType,
				Hint:      PermissionHint,
			}, nil
		}
		return nil, fmt.Errorf("failed to publish %s notification for %s: %w", notificationType, url, err)
	}

	result := &PublishResult{Permitted: true, URL: url, Type: notificationType}
	if meta := resp.UrlNotificationMetadata; meta != nil && meta.LatestUpdate != nil {
		result.NotifyTime = meta.LatestUpdate.NotifyTime
	}
	return result, nil
}
