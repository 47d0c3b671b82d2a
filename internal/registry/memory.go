package registry

import (
	"context"

	id "vaxadmin/pkg/domain"
	"vaxadmin/pkg/platform/sentinel"
)

// StaticClient serves a fixed set of citizen records. Used in development
// when no registry URL is configured, and by tests.
type StaticClient struct {
	citizens []CitizenRecord
}

func NewStaticClient(citizens ...CitizenRecord) *StaticClient {
	return &StaticClient{citizens: citizens}
}

func (c *StaticClient) Lookup(_ context.Context, nik id.NationalID) (CitizenRecord, error) {
	for _, citizen := range c.citizens {
		if nik.Equal(id.NationalID(citizen.NIK)) {
			return citizen, nil
		}
	}
	return CitizenRecord{}, sentinel.ErrNotFound
}
