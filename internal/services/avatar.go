package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/larsgeorge/ontos-sub000/internal/clients/gcp"
	"github.com/larsgeorge/ontos-sub000/internal/logger"
)

const avatarSize = 256

// AvatarService renders initials avatars for users and teams and uploads
// them to the document bucket.
type AvatarService interface {
	GenerateInitialsAvatar(name string) (bytes.Buffer, error)
	CreateAndUpload(ctx context.Context, keyPrefix, id, name string) (bucketKey, url string, err error)
}

type avatarService struct {
	log           *logger.Logger
	bucketService gcp.BucketService

	bgColors []color.NRGBA
	fontFace font.Face
}

func NewAvatarService(log *logger.Logger, bucketService gcp.BucketService) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	parsed, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse avatar font: %w", err)
	}
	face := truetype.NewFace(parsed, &truetype.Options{Size: 96})

	return &avatarService{
		log:           serviceLog,
		bucketService: bucketService,
		bgColors: []color.NRGBA{
			{R: 0x3f, G: 0x51, B: 0xb5, A: 0xff},
			{R: 0x00, G: 0x89, B: 0x7b, A: 0xff},
			{R: 0xc2, G: 0x18, B: 0x5b, A: 0xff},
			{R: 0xf5, G: 0x7c, B: 0x00, A: 0xff},
			{R: 0x51, G: 0x2d, B: 0xa8, A: 0xff},
			{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff},
		},
		fontFace: face,
	}, nil
}

func (s *avatarService) GenerateInitialsAvatar(name string) (bytes.Buffer, error) {
	var buf bytes.Buffer

	dc := gg.NewContext(avatarSize, avatarSize)
	bg := s.bgColors[hashName(name)%uint32(len(s.bgColors))]
	dc.SetColor(bg)
	dc.Clear()

	dc.SetFontFace(s.fontFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(initials(name), avatarSize/2, avatarSize/2, 0.5, 0.5)

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("encode avatar png: %w", err)
	}
	return buf, nil
}

func (s *avatarService) CreateAndUpload(ctx context.Context, keyPrefix, id, name string) (string, string, error) {
	buf, err := s.GenerateInitialsAvatar(name)
	if err != nil {
		return "", "", err
	}
	key := fmt.Sprintf("%s/%s/avatar.png", keyPrefix, id)
	if err := s.bucketService.UploadFile(ctx, key, "image/png", &buf); err != nil {
		return "", "", fmt.Errorf("upload avatar: %w", err)
	}
	return key, s.bucketService.GetPublicURL(key), nil
}

func initials(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	switch {
	case len(fields) == 0:
		return "?"
	case len(fields) == 1:
		return strings.ToUpper(firstRune(fields[0]))
	default:
		return strings.ToUpper(firstRune(fields[0]) + firstRune(fields[len(fields)-1]))
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func hashName(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(name)))
	return h.Sum32()
}
