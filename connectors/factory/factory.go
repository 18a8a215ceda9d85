package factory

import (
	"fmt"
	"time"

	"github.com/kilianp07/svitlo/config"
	"github.com/kilianp07/svitlo/connectors"
	"github.com/kilianp07/svitlo/connectors/esvitlo"
	"github.com/kilianp07/svitlo/connectors/fixture"
	"github.com/kilianp07/svitlo/connectors/htmlpage"
	"github.com/kilianp07/svitlo/core/source"
)

const (
	IDESvitlo  = config.SourceESvitlo
	IDHTMLPage = config.SourceHTMLPage
	IDFixture  = config.SourceFixture
)

var (
	errUnknownSource = "unknown source id: %s"
)

// NewSource builds the connector selected by cfg.Type. Timestamps are read in
// loc.
func NewSource(cfg config.SourceConfig, loc *time.Location, opts ...connectors.Option) (source.Source, error) {
	var s source.Source
	switch cfg.Type {
	case IDESvitlo:
		s = esvitlo.New(cfg.ESvitlo, loc)
	case IDHTMLPage:
		s = htmlpage.New(cfg.HTMLPage, loc)
	case IDFixture:
		s = fixture.New(cfg.Fixture.Path, loc)
	default:
		return nil, fmt.Errorf(errUnknownSource, cfg.Type)
	}
	if err := connectors.Apply(s, opts...); err != nil {
		return nil, err
	}
	return s, nil
}
