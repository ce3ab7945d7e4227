package orchestrator

import (
	"context"
	"strings"

	"github.com/LexiconIndonesia/recruiter-scraper/common/models"
)

// runKeys remembers the natural keys accepted earlier in the same run, so a
// dry run reports the same skips a real run would
type runKeys struct {
	linkedInURLs   map[string]struct{}
	nameAndCompany map[string]struct{}
	jobSourceURLs  map[string]struct{}
}

func newRunKeys() *runKeys {
	return &runKeys{
		linkedInURLs:   make(map[string]struct{}),
		nameAndCompany: make(map[string]struct{}),
		jobSourceURLs:  make(map[string]struct{}),
	}
}

func nameCompanyKey(fullName, company string) string {
	return fullName + "\x00" + company
}

func (k *runKeys) addRecruiter(r models.Recruiter) {
	if url, ok := r.LinkedInURL.Get(); ok && url != "" {
		k.linkedInURLs[url] = struct{}{}
	}
	if r.HasNameAndCompany() {
		k.nameAndCompany[nameCompanyKey(r.FullName, r.Company.MustGet())] = struct{}{}
	}
}

func (k *runKeys) addJob(j models.JobListing) {
	if j.SourceURL != "" {
		k.jobSourceURLs[j.SourceURL] = struct{}{}
	}
}

// isDuplicateRecruiter matches on the profile URL first, then on the exact
// name and company pair. A recruiter with neither key is never a duplicate.
func (o *Orchestrator) isDuplicateRecruiter(ctx context.Context, keys *runKeys, r models.Recruiter) (bool, error) {
	if url, ok := r.LinkedInURL.Get(); ok && strings.TrimSpace(url) != "" {
		if _, seen := keys.linkedInURLs[url]; seen {
			return true, nil
		}
		found, err := o.recruiters.ExistsByLinkedInURL(ctx, url)
		if err != nil || found {
			return found, err
		}
	}

	if r.HasNameAndCompany() {
		company := r.Company.MustGet()
		if _, seen := keys.nameAndCompany[nameCompanyKey(r.FullName, company)]; seen {
			return true, nil
		}
		return o.recruiters.ExistsByNameAndCompany(ctx, r.FullName, company)
	}

	return false, nil
}

// isDuplicateJob matches on the exact source URL
func (o *Orchestrator) isDuplicateJob(ctx context.Context, keys *runKeys, j models.JobListing) (bool, error) {
	if j.SourceURL == "" {
		return false, nil
	}
	if _, seen := keys.jobSourceURLs[j.SourceURL]; seen {
		return true, nil
	}
	return o.jobs.ExistsBySourceURL(ctx, j.SourceURL)
}
