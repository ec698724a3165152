package services

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// LeafImageFolder is where uploaded leaf photos land in Cloudinary.
const LeafImageFolder = "coffeeguard/leaves"

// CloudinaryService stores submitted leaf photos and hands back the hosted
// URL that goes into the diagnosis record.
type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryService{cld: cld}, nil
}

// UploadLeafImage uploads raw image bytes and returns the secure URL.
func (s *CloudinaryService) UploadLeafImage(ctx context.Context, image []byte) (string, error) {
	uploadResult, err := s.cld.Upload.Upload(ctx, image, uploader.UploadParams{
		Folder:       LeafImageFolder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	return uploadResult.SecureURL, nil
}
