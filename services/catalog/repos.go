package catalog

import "videoportalapi/repository"

// Repos bundles the repositories the catalog services are built on.
// Services only use the ones they need.
type Repos struct {
	Base       repository.BaseRepository
	Groups     repository.GroupRepository
	Clients    repository.ClientRepository
	AccessCode repository.AccessCodeRepository
	Videos     repository.VideoRepository
	Feedback   repository.FeedbackRepository
}

// DefaultRepos returns repositories on the global database connection.
func DefaultRepos() Repos {
	return Repos{
		Base:       repository.NewBaseRepository(),
		Groups:     repository.NewGroupRepository(),
		Clients:    repository.NewClientRepository(),
		AccessCode: repository.NewAccessCodeRepository(),
		Videos:     repository.NewVideoRepository(),
		Feedback:   repository.NewFeedbackRepository(),
	}
}

func (r Repos) codeRegistry() codeRegistry {
	return codeRegistry{
		accessCodeRepo: r.AccessCode,
		clientRepo:     r.Clients,
		groupRepo:      r.Groups,
	}
}
