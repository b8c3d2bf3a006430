// Copyright 2019 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2019 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package notifications sends a short summary of detected
// suspicious clients to administrators. Either e-mail or Conomi
// can be configured.
package notifications

import (
	"errors"
	"fmt"
	goMail "net/mail"
	"strings"
	"time"

	"github.com/czcorpus/cnc-gokit/mail"
	"github.com/czcorpus/conomi/client"
	"github.com/rs/zerolog/log"
)

const (
	defaultSender = "logsentry@localhost"
)

// Notifier is a general type representing a service
// for sending warnings to administrators
type Notifier interface {
	SendNotification(subject string, metadata map[string]any, paragraphs ...string) error
}

// NewNotifier is a factory function for e-mail/Conomi notification.
// Both configurations are mutually exclusive and in case both
// are provided, the function returns an error. With no configuration,
// a notifier which just logs messages is returned.
//
// Missing e-mail sender is replaced by a default value.
func NewNotifier(
	conf *mail.NotificationConf,
	conf2 *client.ConomiClientConf,
	loc *time.Location,
) (Notifier, error) {
	if conf != nil && conf2 != nil {
		return nil, errors.New("either Conomi or e-mail notifier can be configured")
	}
	if conf2 != nil {
		cclient := client.NewConomiClient(*conf2)
		return &conomiNotifier{client: cclient}, nil

	} else if conf != nil {
		if err := validateEmailConf(conf); err != nil {
			return nil, err
		}
		log.Info().Msgf(
			"creating e-mail sender with recipient(s) %s", strings.Join(conf.Recipients, ", "))
		return &emailNotifier{conf: conf, loc: loc}, nil
	}
	return &nullNotifier{}, nil
}

func validateEmailConf(conf *mail.NotificationConf) error {
	if conf.Sender == "" {
		log.Warn().Msgf("e-mail sender not set - using default %s", defaultSender)
		conf.Sender = defaultSender
	}
	if len(conf.Recipients) == 0 {
		return errors.New("no e-mail recipients configured")
	}
	validated := append([]string{conf.Sender}, conf.Recipients...)
	for _, addr := range validated {
		if _, err := goMail.ParseAddress(addr); err != nil {
			return fmt.Errorf("incorrect e-mail address %s: %w", addr, err)
		}
	}
	return nil
}
