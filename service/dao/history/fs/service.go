package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/certify/model"
	"github.com/viant/certify/service/dao"
	"github.com/viant/certify/service/dao/history"
)

// Service stores one JSON file per approval under baseURL.
type Service struct {
	baseURL string
	fs      afs.Service
	logger  zerolog.Logger
	mu      sync.RWMutex
}

// New creates a file-backed approval history. baseURL may use any afs scheme.
func New(baseURL string, fs afs.Service) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{baseURL: baseURL, fs: fs, logger: log.Logger}
}

var _ history.Service = (*Service)(nil)

func (s *Service) approvalURL(id string) string {
	return url.Join(s.baseURL, id+".json")
}

// Save persists an approval
func (s *Service) Save(ctx context.Context, approval *model.Approval) error {
	if approval == nil {
		return dao.ErrNilEntity
	}
	if approval.ID == "" {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(approval)
	if err != nil {
		return fmt.Errorf("failed to marshal approval %s: %w", approval.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.approvalURL(approval.ID)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save approval to %s: %w", URL, err)
	}
	return nil
}

// Load reads an approval by id
func (s *Service) Load(ctx context.Context, id string) (*model.Approval, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	URL := s.approvalURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check approval %s: %w", id, err)
	}
	if !exists {
		return nil, fmt.Errorf("approval %s: %w", id, dao.ErrNotFound)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read approval %s: %w", id, err)
	}
	ret := &model.Approval{}
	if err = json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal approval %s: %w", id, err)
	}
	return ret, nil
}

// Delete removes an approval file
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.approvalURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check approval %s: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("approval %s: %w", id, dao.ErrNotFound)
	}
	return s.fs.Delete(ctx, URL)
}

// List returns matching approvals ordered by start time. Unreadable files are
// logged and skipped.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Approval, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if exists, _ := s.fs.Exists(ctx, s.baseURL); !exists {
		return nil, nil
	}
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list approvals: %w", err)
	}
	var ret []*model.Approval
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", object.URL()).Msg("failed to read approval")
			continue
		}
		approval := &model.Approval{}
		if err := json.Unmarshal(data, approval); err != nil {
			s.logger.Warn().Err(err).Str("url", object.URL()).Msg("failed to unmarshal approval")
			continue
		}
		if !history.Matches(approval, parameters) {
			continue
		}
		ret = append(ret, approval)
	}
	sort.SliceStable(ret, func(i, j int) bool { return ret[i].StartedAt.Before(ret[j].StartedAt) })
	return ret, nil
}
