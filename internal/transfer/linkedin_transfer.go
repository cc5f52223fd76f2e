package transfer

// LinkedinTokenResponse is the body of LinkedIn's token endpoint for both
// the authorization-code and refresh-token grants.
type LinkedinTokenResponse struct {
	AccessToken           string `json:"access_token"`
	ExpiresIn             int    `json:"expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int    `json:"refresh_token_expires_in"`
	Scope                 string `json:"scope"`
	Error                 string `json:"error"`
	ErrorDescription      string `json:"error_description"`
}

// LinkedinUserinfo is the OpenID Connect userinfo document.
type LinkedinUserinfo struct {
	Sub        string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
	Email      string `json:"email"`
}

type LinkedinOrganizationAcl struct {
	OrganizationalTarget string `json:"organizationalTarget"`
	Role                 string `json:"role"`
	State                string `json:"state"`
}

type LinkedinOrganizationAclsResponse struct {
	Elements []LinkedinOrganizationAcl `json:"elements"`
}

// ProfileData is the opaque JSON cached on a token row.
type ProfileData struct {
	Name          string               `json:"name"`
	Picture       string               `json:"picture"`
	Email         string               `json:"email"`
	Organizations []OrganizationRecord `json:"organizations,omitempty"`
}

type OrganizationRecord struct {
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	LogoURL        string `json:"logo_url"`
}

// Asset registration (upload) request/response for images, documents and video.

type RegisterUploadRequest struct {
	RegisterUploadRequest RegisterUpload `json:"registerUploadRequest"`
}

type RegisterUpload struct {
	Owner                string         `json:"owner"`
	Recipes              []string       `json:"recipes"`
	ServiceRelationships []Relationship `json:"serviceRelationships"`
}

type Relationship struct {
	RelationshipType string `json:"relationshipType"`
	Identifier       string `json:"identifier"`
}

type RegisterUploadResponse struct {
	Value struct {
		Asset           string `json:"asset"`
		UploadMechanism struct {
			MediaUploadHTTPRequest struct {
				UploadURL string            `json:"uploadUrl"`
				Headers   map[string]string `json:"headers"`
			} `json:"com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"`
		} `json:"uploadMechanism"`
	} `json:"value"`
}

// UGC post creation payload. Author is omitted for personal posts so the
// provider defaults to the token owner's profile.
type UgcPostRequest struct {
	Author          string             `json:"author,omitempty"`
	LifecycleState  string             `json:"lifecycleState"`
	SpecificContent UgcSpecificContent `json:"specificContent"`
	Visibility      map[string]string  `json:"visibility"`
}

type UgcSpecificContent struct {
	ShareContent UgcShareContent `json:"com.linkedin.ugc.ShareContent"`
}

type UgcShareContent struct {
	ShareCommentary    UgcText    `json:"shareCommentary"`
	ShareMediaCategory string     `json:"shareMediaCategory"`
	Media              []UgcMedia `json:"media,omitempty"`
}

type UgcText struct {
	Text string `json:"text"`
}

type UgcMedia struct {
	Status string  `json:"status"`
	Media  string  `json:"media"`
	Title  UgcText `json:"title"`
}

type UgcPostResponse struct {
	ID string `json:"id"`
}

type LinkedinErrorResponse struct {
	Message          string `json:"message"`
	ServiceErrorCode int    `json:"serviceErrorCode"`
	Status           int    `json:"status"`
}

// Share statistics from the analytics endpoints, flattened to the counters
// linkedbud snapshots.
type LinkedinShareStatistics struct {
	Impressions int64 `json:"impressionCount"`
	Likes       int64 `json:"likeCount"`
	Comments    int64 `json:"commentCount"`
	Shares      int64 `json:"shareCount"`
	Clicks      int64 `json:"clickCount"`
}

type ShareStatisticsResponse struct {
	Elements []struct {
		TotalShareStatistics LinkedinShareStatistics `json:"totalShareStatistics"`
	} `json:"elements"`
}

type SocialActionsResponse struct {
	LikesSummary struct {
		TotalLikes int64 `json:"totalLikes"`
	} `json:"likesSummary"`
	CommentsSummary struct {
		TotalComments int64 `json:"aggregatedTotalComments"`
	} `json:"commentsSummary"`
}
