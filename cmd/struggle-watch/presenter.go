package main

import (
	"github.com/AccelByte/extend-struggle-engine/pkg/report"
	"github.com/AccelByte/extend-struggle-engine/pkg/state"
	"github.com/sirupsen/logrus"
)

// logPresenter writes presentation calls to the log. onPrompt, when set, is
// called each time the report prompt opens.
type logPresenter struct {
	log      logrus.FieldLogger
	onPrompt func()
	last     int
}

func (p *logPresenter) ShowAlert(level state.AlertLevel) {
	p.log.WithField("score", p.last).Warnf("struggle alert: %s", level)
}

func (p *logPresenter) ShowPrompt() {
	p.log.Info("report prompt opened")
	if p.onPrompt != nil {
		p.onPrompt()
	}
}

func (p *logPresenter) HidePrompt() {
	p.log.Info("report prompt closed")
}

func (p *logPresenter) RenderScore(score int) {
	if score != p.last {
		p.log.Debugf("score %d", score)
	}
	p.last = score
}

func (p *logPresenter) ReportOutcome(trigger report.Trigger, err error) {
	if err != nil {
		p.log.WithError(err).Errorf("%s report failed", trigger)
		return
	}
	p.log.Infof("%s report delivered", trigger)
}
