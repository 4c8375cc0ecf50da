package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// LoopType names a kind of background loop run by the jobs daemon.
type LoopType string

const (
	DerivativesLoop       LoopType = "derivatives"
	RekognitionLoop       LoopType = "rekognition"
	FlickrSyncLoop        LoopType = "flickr_sync"
	ClaimVerificationLoop LoopType = "claim_verification"
	RelatedTagsLoop       LoopType = "related_tags"
	GarbageCollectionLoop LoopType = "garbage_collection"
)

// job kinds consumed by each loop. Loops not in the job queue map to "".
var loopJobs = map[LoopType]JobKind{
	DerivativesLoop:       JobDerivatives,
	RekognitionLoop:       JobRekognition,
	FlickrSyncLoop:        JobFlickrSync,
	RelatedTagsLoop:       JobRelatedTags,
	ClaimVerificationLoop: "",
	GarbageCollectionLoop: "",
}

func (lt LoopType) String() string {
	return string(lt)
}

func (lt LoopType) IsKnown() bool {
	_, ok := loopJobs[lt]
	return ok
}

// JobKind is the kind of queued jobs the loop consumes.
//
// ok is false for loops which do not consume the job queue.
func (lt LoopType) JobKind() (kind JobKind, ok bool) {
	kind = loopJobs[lt]
	return kind, kind != ""
}

var ErrUnknownLoopType = errors.New("unknown loop type")

func AsLoopType(s string) (LoopType, error) {
	l := LoopType(s)
	if l.IsKnown() {
		return l, nil
	}
	known := make([]string, 0, len(loopJobs))
	for k := range loopJobs {
		known = append(known, string(k))
	}
	sort.Strings(known)
	return l, fmt.Errorf(`%w: "%s" (one of %s)`, ErrUnknownLoopType, s, strings.Join(known, ", "))
}
