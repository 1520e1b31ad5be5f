package flow

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// userService implements the UserService interface
type userService struct {
	client *Client
}

// Profile retrieves the signed-in user's profile
func (s *userService) Profile(ctx context.Context) (*UserProfile, error) {
	var result UserProfile
	if err := s.client.execute(ctx, http.MethodGet, "/users/profile", nil, nil, &result); err != nil {
		return nil, errors.Wrap(err, "failed to get profile")
	}

	return &result, nil
}

// UpdateProfile updates name and email
func (s *userService) UpdateProfile(ctx context.Context, params *UpdateProfileParams) (*UserProfile, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}

	var result UserProfile
	if err := s.client.execute(ctx, http.MethodPut, "/users/profile", nil, params, &result); err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}

	return &result, nil
}

// UpdateProfilePicture sets the picture URL; an empty URL is sent as null
func (s *userService) UpdateProfilePicture(ctx context.Context, pictureURL string) (*UserProfile, error) {
	if err := ValidateProfilePictureURL(pictureURL); err != nil {
		return nil, err
	}

	input := map[string]interface{}{
		"profilePictureUrl": nil,
	}
	if u := strings.TrimSpace(pictureURL); u != "" {
		input["profilePictureUrl"] = u
	}

	var result UserProfile
	if err := s.client.execute(ctx, http.MethodPut, "/users/profile-picture", nil, input, &result); err != nil {
		return nil, errors.Wrap(err, "failed to update profile picture")
	}

	return &result, nil
}
