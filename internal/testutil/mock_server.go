//go:build !production

package testutil

import (
	"github.com/stretchr/testify/mock"
)

// MockServer is a testify mock of types.ServerInterface
type MockServer struct {
	mock.Mock
}

func (m *MockServer) IsMaintenanceMode() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockServer) GetOnlineCount() int {
	args := m.Called()
	return args.Int(0)
}
