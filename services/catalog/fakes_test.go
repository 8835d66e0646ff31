package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"videoportalapi/models"

	"gorm.io/gorm"
)

// memDB backs every repository interface with maps. Transaction runs fn
// directly and does not roll back.
type memDB struct {
	mu        sync.Mutex
	groups    map[string]models.Group
	clients   map[string]models.Client
	codes     map[string]models.AccessCode
	videos    map[string]models.Video
	feedback  []models.Feedback
	seq       int
	failReads error
}

func newMemDB() *memDB {
	return &memDB{
		groups:  map[string]models.Group{},
		clients: map[string]models.Client{},
		codes:   map[string]models.AccessCode{},
		videos:  map[string]models.Video{},
	}
}

func (m *memDB) repos() Repos {
	return Repos{
		Base:       memBase{m},
		Groups:     memGroups{m},
		Clients:    memClients{m},
		AccessCode: memCodes{m},
		Videos:     memVideos{m},
		Feedback:   memFeedback{m},
	}
}

func (m *memDB) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

type memBase struct{ m *memDB }

func (b memBase) Begin() *gorm.DB { return nil }

func (b memBase) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type memGroups struct{ m *memDB }

func (r memGroups) Create(_ context.Context, _ *gorm.DB, g *models.Group) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if g.ID == "" {
		g.ID = r.m.nextID("group")
	}
	r.m.groups[g.ID] = *g
	return nil
}

func (r memGroups) GetByID(_ context.Context, _ *gorm.DB, id string) (*models.Group, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failReads != nil {
		return nil, r.m.failReads
	}
	g, ok := r.m.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &g, nil
}

func (r memGroups) GetByAccessCode(_ context.Context, _ *gorm.DB, code string) (*models.Group, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failReads != nil {
		return nil, r.m.failReads
	}
	for _, g := range r.m.groups {
		if g.AccessCode == code {
			return &g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memGroups) GetAll(_ context.Context, _ *gorm.DB) ([]models.Group, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failReads != nil {
		return nil, r.m.failReads
	}
	out := make([]models.Group, 0, len(r.m.groups))
	for _, g := range r.m.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memGroups) Delete(_ context.Context, _ *gorm.DB, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.groups[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.groups, id)
	return nil
}

type memClients struct{ m *memDB }

func (r memClients) Create(_ context.Context, _ *gorm.DB, c *models.Client) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if c.ID == "" {
		c.ID = r.m.nextID("client")
	}
	r.m.clients[c.ID] = *c
	return nil
}

func (r memClients) GetByID(_ context.Context, _ *gorm.DB, id string) (*models.Client, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r memClients) GetByAccessCode(_ context.Context, _ *gorm.DB, code string) (*models.Client, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failReads != nil {
		return nil, r.m.failReads
	}
	for _, c := range r.m.clients {
		if c.AccessCode == code {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memClients) GetAll(_ context.Context, _ *gorm.DB) ([]models.Client, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]models.Client, 0, len(r.m.clients))
	for _, c := range r.m.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientName < out[j].ClientName })
	return out, nil
}

func (r memClients) SetActive(_ context.Context, _ *gorm.DB, id string, active bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.clients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.IsActive = active
	r.m.clients[id] = c
	return nil
}

func (r memClients) UnassignGroup(_ context.Context, _ *gorm.DB, groupID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, c := range r.m.clients {
		if c.GroupID != nil && *c.GroupID == groupID {
			c.GroupID = nil
			r.m.clients[id] = c
		}
	}
	return nil
}

func (r memClients) Delete(_ context.Context, _ *gorm.DB, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.clients[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.clients, id)
	return nil
}

type memCodes struct{ m *memDB }

func (r memCodes) Create(_ context.Context, _ *gorm.DB, a *models.AccessCode) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if a.ID == "" {
		a.ID = r.m.nextID("code")
	}
	r.m.codes[a.ID] = *a
	return nil
}

func (r memCodes) GetByCode(_ context.Context, _ *gorm.DB, code string) (*models.AccessCode, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failReads != nil {
		return nil, r.m.failReads
	}
	for _, a := range r.m.codes {
		if a.Code == code {
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memCodes) GetAll(_ context.Context, _ *gorm.DB) ([]models.AccessCode, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]models.AccessCode, 0, len(r.m.codes))
	for _, a := range r.m.codes {
		out = append(out, a)
	}
	return out, nil
}

func (r memCodes) SetActive(_ context.Context, _ *gorm.DB, id string, active bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.codes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.IsActive = active
	r.m.codes[id] = a
	return nil
}

type memVideos struct{ m *memDB }

func (r memVideos) Create(_ context.Context, _ *gorm.DB, v *models.Video) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.videos {
		if existing.VideoID == v.VideoID {
			return gorm.ErrDuplicatedKey
		}
	}
	if v.ID == "" {
		v.ID = r.m.nextID("video")
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	r.m.videos[v.ID] = *v
	return nil
}

func (r memVideos) GetByID(_ context.Context, _ *gorm.DB, id string) (*models.Video, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failReads != nil {
		return nil, r.m.failReads
	}
	v, ok := r.m.videos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

func (r memVideos) GetAll(_ context.Context, _ *gorm.DB) ([]models.Video, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failReads != nil {
		return nil, r.m.failReads
	}
	out := make([]models.Video, 0, len(r.m.videos))
	for _, v := range r.m.videos {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r memVideos) GetIDsByGroup(_ context.Context, _ *gorm.DB, groupID string) ([]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var ids []string
	for id, v := range r.m.videos {
		if v.GroupID == groupID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r memVideos) GetIDsExpired(_ context.Context, _ *gorm.DB, now time.Time) ([]string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var ids []string
	for id, v := range r.m.videos {
		if v.ExpiredAt(now) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r memVideos) CountByGroup(ctx context.Context, tx *gorm.DB, groupID string) (int64, error) {
	ids, err := r.GetIDsByGroup(ctx, tx, groupID)
	return int64(len(ids)), err
}

func (r memVideos) SetActive(_ context.Context, _ *gorm.DB, id string, active bool) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	v, ok := r.m.videos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.IsActive = active
	r.m.videos[id] = v
	return nil
}

func (r memVideos) DeactivateExpired(_ context.Context, _ *gorm.DB, now time.Time) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for id, v := range r.m.videos {
		if v.IsActive && v.ExpiredAt(now) {
			v.IsActive = false
			r.m.videos[id] = v
			n++
		}
	}
	return n, nil
}

func (r memVideos) Delete(_ context.Context, _ *gorm.DB, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.videos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.videos, id)
	return nil
}

func (r memVideos) DeleteByIDs(_ context.Context, _ *gorm.DB, ids []string) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.m.videos[id]; ok {
			delete(r.m.videos, id)
			n++
		}
	}
	return n, nil
}

type memFeedback struct{ m *memDB }

func (r memFeedback) Create(_ context.Context, _ *gorm.DB, fb *models.Feedback) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if fb.ID == "" {
		fb.ID = r.m.nextID("fb")
	}
	fb.CreatedAt = time.Now()
	r.m.feedback = append(r.m.feedback, *fb)
	return nil
}

func (r memFeedback) GetByVideo(_ context.Context, _ *gorm.DB, videoID, clientCode string) ([]models.Feedback, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []models.Feedback
	for _, fb := range r.m.feedback {
		if fb.VideoID == videoID && (clientCode == "" || fb.ClientCode == clientCode) {
			out = append(out, fb)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TimestampSeconds < out[j].TimestampSeconds })
	return out, nil
}

func (r memFeedback) DeleteByVideoIDs(_ context.Context, _ *gorm.DB, videoIDs []string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	drop := map[string]bool{}
	for _, id := range videoIDs {
		drop[id] = true
	}
	kept := r.m.feedback[:0]
	for _, fb := range r.m.feedback {
		if !drop[fb.VideoID] {
			kept = append(kept, fb)
		}
	}
	r.m.feedback = kept
	return nil
}

var errStoreDown = errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")
