package grpc

import (
	"github.com/dmitrijs2005/campuswall/internal/api"
	"github.com/dmitrijs2005/campuswall/internal/server/models"
	"github.com/dmitrijs2005/campuswall/internal/server/services"
)

// profileToAPI converts p for the user viewerID. The phone number is the
// login key and is only shown to its owner.
func profileToAPI(p *models.Profile, viewerID int64) *api.Profile {
	if p == nil {
		return nil
	}
	phone := ""
	if p.UserID == viewerID {
		phone = p.PhoneNumber
	}
	return &api.Profile{
		UserID:        p.UserID,
		PhoneNumber:   phone,
		Nickname:      p.Nickname,
		AvatarURL:     p.AvatarURL,
		BackgroundURL: p.BackgroundURL,
		Signature:     p.Signature,
		Gender:        p.Gender,
		UniversityID:  p.UniversityID,
		University:    p.University,
	}
}

func boxToAPI(b models.Box) api.Box {
	return api.Box{
		BoxID:     b.ID,
		UserID:    b.OwnerID,
		Title:     b.Title,
		Content:   b.Content,
		Contact:   b.Contact,
		CreatedAt: b.CreatedAt,
	}
}

func boxDetailsToAPI(d *models.BoxDetails) *api.BoxDetails {
	return &api.BoxDetails{
		Box:            boxToAPI(d.Box),
		PictureList:    d.Pictures,
		UniversityList: d.Universities,
	}
}

func viewedBoxToAPI(v *models.ViewedBox) *api.ViewedBox {
	return &api.ViewedBox{Box: boxToAPI(v.Box), ViewedAt: v.ViewedAt}
}

func newBoxFromAPI(req *api.PostBoxRequest) services.NewBox {
	return services.NewBox{
		Title:         req.Title,
		Content:       req.Content,
		Contact:       req.Contact,
		Pictures:      req.Pictures,
		UniversityIDs: req.UniversityIDs,
	}
}

func presignToAPI(p *services.PresignedURL) *api.PresignResponse {
	return &api.PresignResponse{Key: p.Key, URL: p.URL, ExpiresAt: p.ExpiresAt}
}
