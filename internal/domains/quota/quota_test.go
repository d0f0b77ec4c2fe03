package quota_test

import (
	"context"
	"errors"
	"poolbook/config"
	"poolbook/infras/otel/mocks"
	"poolbook/internal/domains/booking/model"
	"poolbook/internal/domains/quota"
	repoMocks "poolbook/shared/repository/mocks"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestNoQuota_CheckAvailability(t *testing.T) {
	allowed, err := quota.NewNoQuota().CheckAvailability(context.Background(), nil, "any", 1000)

	assert.NoError(t, err)
	assert.True(t, allowed)
}

func TestBasicQuota_CheckAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTable := repoMocks.NewMockTable(ctrl)
	mapping := model.DefaultMapping()

	checker := quota.NewBasicQuota(mockTable, mapping, map[string]int{"1": 3, "2": 3, "empty": 0}, mocks.NewOtel())

	tests := []struct {
		name      string
		poolID    string
		units     int
		setupMock func()
		want      bool
		wantErr   bool
	}{
		{
			name:   "room left",
			poolID: "1",
			units:  1,
			setupMock: func() {
				mockTable.EXPECT().CountTx(gomock.Any(), gomock.Nil(), mapping.NonVoid("1")).Return(0, nil)
			},
			want: true,
		},
		{
			name:   "exactly fills the pool",
			poolID: "1",
			units:  3,
			setupMock: func() {
				mockTable.EXPECT().CountTx(gomock.Any(), gomock.Nil(), mapping.NonVoid("1")).Return(0, nil)
			},
			want: true,
		},
		{
			name:   "full pool",
			poolID: "2",
			units:  1,
			setupMock: func() {
				mockTable.EXPECT().CountTx(gomock.Any(), gomock.Nil(), mapping.NonVoid("2")).Return(3, nil)
			},
			want: false,
		},
		{
			name:   "set larger than what is left",
			poolID: "1",
			units:  2,
			setupMock: func() {
				mockTable.EXPECT().CountTx(gomock.Any(), gomock.Nil(), mapping.NonVoid("1")).Return(2, nil)
			},
			want: false,
		},
		{
			name:   "zero limit",
			poolID: "empty",
			units:  1,
			setupMock: func() {
				mockTable.EXPECT().CountTx(gomock.Any(), gomock.Nil(), mapping.NonVoid("empty")).Return(0, nil)
			},
			want: false,
		},
		{
			name:      "pool without limit",
			poolID:    "unlimited",
			units:     500,
			setupMock: func() {},
			want:      true,
		},
		{
			name:   "count fails",
			poolID: "1",
			units:  1,
			setupMock: func() {
				mockTable.EXPECT().CountTx(gomock.Any(), gomock.Nil(), gomock.Any()).Return(0, errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			got, err := checker.CheckAvailability(context.Background(), nil, tt.poolID, tt.units)

			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, got)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBasicQuota_LimitsAreCopied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTable := repoMocks.NewMockTable(ctrl)
	limits := map[string]int{"1": 1}

	checker := quota.NewBasicQuota(mockTable, model.DefaultMapping(), limits, mocks.NewOtel())
	limits["1"] = 100

	mockTable.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(1, nil)

	allowed, err := checker.CheckAvailability(context.Background(), nil, "1", 1)

	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestNew(t *testing.T) {
	cfg := &config.Config{}
	cfg.Booking.Quota.Mode = "none"

	allowed, err := quota.New(cfg, nil, model.DefaultMapping(), mocks.NewOtel()).CheckAvailability(context.Background(), nil, "1", 99)

	assert.NoError(t, err)
	assert.True(t, allowed)
}
