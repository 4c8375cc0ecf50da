package graphql

import (
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/opst/photoshare/pkg/domain"
)

type tagResolver struct {
	tag domain.Tag
}

func (t *tagResolver) ID() graphql.ID { return toID(t.tag.ID) }
func (t *tagResolver) Name() string   { return t.tag.Name }

type taggingResolver struct {
	tagging domain.Tagging
}

func (t *taggingResolver) Tag() *tagResolver       { return &tagResolver{tag: t.tagging.Tag} }
func (t *taggingResolver) Source() string          { return enum(t.tagging.Source) }
func (t *taggingResolver) Confidence() *float64    { return t.tagging.Confidence }
func (t *taggingResolver) CreatedAt() graphql.Time { return toTime(t.tagging.CreatedAt) }

type tagCountResolver struct {
	count domain.TagCount
}

func (t *tagCountResolver) Tag() *tagResolver { return &tagResolver{tag: t.count.Tag} }
func (t *tagCountResolver) Count() int32      { return int32(t.count.Count) }

func tagCountsOf(counts []domain.TagCount) []*tagCountResolver {
	out := make([]*tagCountResolver, 0, len(counts))
	for _, c := range counts {
		out = append(out, &tagCountResolver{count: c})
	}
	return out
}

type relatedTagResolver struct {
	related domain.RelatedTag
}

func (r *relatedTagResolver) Source() *tagResolver     { return &tagResolver{tag: r.related.Source} }
func (r *relatedTagResolver) Target() *tagResolver     { return &tagResolver{tag: r.related.Target} }
func (r *relatedTagResolver) CoOccurrences() int32     { return int32(r.related.CoOccurrences) }
func (r *relatedTagResolver) Support() float64         { return r.related.Support }
func (r *relatedTagResolver) Confidence() float64      { return r.related.Confidence }
func (r *relatedTagResolver) Lift() float64            { return r.related.Lift }
func (r *relatedTagResolver) Jaccard() float64         { return r.related.Jaccard }
func (r *relatedTagResolver) ComputedAt() graphql.Time { return toTime(r.related.ComputedAt) }
