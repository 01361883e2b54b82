package types

import (
	"encoding/json"
	"path"

	"github.com/pkg/errors"
	"github.com/zeu5/treasure-qlearn/util"
)

// Progress is the session state right after an episode completed
type Progress struct {
	SessionID string `json:"session"`
	Iteration int    `json:"iteration"`
	Streak    int    `json:"streak"`
	Status    Status `json:"status"`
}

// EpisodeSink observes completed episodes. Sinks run outside the session
// lock; an error is logged and does not stop training.
type EpisodeSink interface {
	OnEpisode(*Episode, Progress) error
}

type EpisodeSinkFunc func(*Episode, Progress) error

func (f EpisodeSinkFunc) OnEpisode(e *Episode, p Progress) error {
	return f(e, p)
}

type episodeRecord struct {
	Progress
	Episode *Episode `json:"episode"`
}

// EncodeEpisode is the json form shared by the recording and publishing sinks
func EncodeEpisode(e *Episode, p Progress) ([]byte, error) {
	return json.Marshal(episodeRecord{Progress: p, Episode: e})
}

// RecordingSink appends each episode as a json line to <dir>/episodes.jsonl
type RecordingSink struct {
	filePath string
}

var _ EpisodeSink = &RecordingSink{}

func NewRecordingSink(dir string) (*RecordingSink, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, errors.Wrapf(err, "creating %s", dir)
	}
	return &RecordingSink{filePath: path.Join(dir, "episodes.jsonl")}, nil
}

func (r *RecordingSink) Path() string {
	return r.filePath
}

func (r *RecordingSink) OnEpisode(e *Episode, p Progress) error {
	bs, err := EncodeEpisode(e, p)
	if err != nil {
		return err
	}
	return util.AppendToFile(r.filePath, string(bs))
}
