package rekognition

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrek "github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/opst/photoshare/pkg/conn/vision"
)

// Client is the subset of *rekognition.Client used by this package.
type Client interface {
	DetectLabels(context.Context, *awsrek.DetectLabelsInput, ...func(*awsrek.Options)) (*awsrek.DetectLabelsOutput, error)
}

// Rekognition accepts image bytes up to 5 MiB.
const MaxImageBytes = 5 * 1024 * 1024

type labeler struct {
	client        Client
	maxLabels     int32
	minConfidence float32
}

func New(client Client, maxLabels int32, minConfidence float32) vision.Labeler {
	return &labeler{client: client, maxLabels: maxLabels, minConfidence: minConfidence}
}

func FromConfig(cfg aws.Config, maxLabels int32, minConfidence float32) vision.Labeler {
	return New(awsrek.NewFromConfig(cfg), maxLabels, minConfidence)
}

func (l *labeler) Labels(ctx context.Context, image []byte) ([]vision.Label, error) {
	if MaxImageBytes < len(image) {
		return nil, fmt.Errorf("image is too large for rekognition: %d bytes", len(image))
	}
	out, err := l.client.DetectLabels(ctx, &awsrek.DetectLabelsInput{
		Image:         &types.Image{Bytes: image},
		MaxLabels:     aws.Int32(l.maxLabels),
		MinConfidence: aws.Float32(l.minConfidence),
	})
	if err != nil {
		return nil, err
	}

	ret := make([]vision.Label, 0, len(out.Labels))
	for _, lb := range out.Labels {
		if lb.Name == nil {
			continue
		}
		c := 0.0
		if lb.Confidence != nil {
			c = float64(*lb.Confidence)
		}
		ret = append(ret, vision.Label{Name: *lb.Name, Confidence: c})
	}
	return ret, nil
}
