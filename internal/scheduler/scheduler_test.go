package scheduler

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidSpec(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	s := New(context.Background(), nil, []string{"600000"}, 120, log)

	require.NoError(t, s.Register("0 30 15 * * 1-5"))
	s.Start()
	s.Stop()
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	s := New(context.Background(), nil, nil, 120, log)

	assert.Error(t, s.Register("every day at noon"))
}
