package service

import (
	"context"
	"testing"
	"time"

	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuarterBounds(t *testing.T) {
	start, end, err := QuarterBounds(2024, 4)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), end)

	start, end, err = QuarterBounds(2024, 1)
	require.NoError(t, err)
	assert.Equal(t, time.January, start.Month())
	assert.Equal(t, time.April, end.Month())

	for _, q := range [][2]int{{2024, 0}, {2024, 5}, {0, 1}, {10000, 2}} {
		_, _, err := QuarterBounds(q[0], q[1])
		assert.ErrorIs(t, err, ErrInvalidArgument, "%v", q)
	}
}

func TestCommissionReports(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	sam := &model.Employee{Name: "Sam Rivera", Location: model.LocationStore, Roles: model.RoleSet{model.RoleSalesperson}}
	kim := &model.Employee{Name: "Kim Osei", Location: model.LocationStore, Roles: model.RoleSet{model.RoleSalesperson}}
	idle := &model.Employee{Name: "Idle Ida", Location: model.LocationStore, Roles: model.RoleSet{model.RoleSalesperson}}
	for _, e := range []*model.Employee{sam, kim, idle} {
		require.NoError(t, store.Employees().Create(ctx, e))
	}

	sell := func(by *model.Employee, date time.Time, price, commission string, status model.SaleStatus) {
		require.NoError(t, store.Sales().Create(ctx, &model.Sale{
			CustomerID:       uuid.New(),
			SoldByEmployeeID: by.ID,
			ProductID:        uuid.New(),
			Status:           status,
			SalePrice:        decimal.RequireFromString(price),
			CommissionAmount: decimal.RequireFromString(commission),
			SaleChannel:      DefaultSaleChannel,
			Location:         model.LocationStore,
			SaleDate:         date,
		}))
	}
	q2 := func(month time.Month, day int) time.Time { return time.Date(2024, month, day, 12, 0, 0, 0, time.UTC) }

	sell(sam, q2(time.April, 2), "1150.00", "115.00", model.SaleFulfilled)
	sell(sam, q2(time.June, 30), "1299.99", "110.49", model.SalePending)
	sell(sam, q2(time.May, 5), "500.00", "50.00", model.SaleCancelled)
	sell(kim, q2(time.May, 1), "100.00", "10.00", model.SaleFulfilled)
	// outside the quarter on both sides
	sell(kim, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), "900.00", "90.00", model.SaleFulfilled)
	sell(kim, time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC), "900.00", "90.00", model.SaleFulfilled)

	svc := NewReportService(store.Sales(), store.Employees())

	report, err := svc.GetQuarterlyCommissions(ctx, 2024, 2)
	require.NoError(t, err)
	require.Len(t, report.Employees, 2)

	first := report.Employees[0]
	assert.Equal(t, sam.ID, first.EmployeeID)
	assert.Equal(t, int64(2), first.SaleCount)
	assert.Equal(t, "2449.99", first.TotalSales)
	assert.Equal(t, "225.49", first.TotalCommission)

	second := report.Employees[1]
	assert.Equal(t, kim.ID, second.EmployeeID)
	assert.Equal(t, "10.00", second.TotalCommission)

	line, err := svc.GetEmployeeQuarterlyCommission(ctx, kim.ID, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), line.SaleCount)

	zero, err := svc.GetEmployeeQuarterlyCommission(ctx, idle.ID, 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, "Idle Ida", zero.EmployeeName)
	assert.Equal(t, int64(0), zero.SaleCount)
	assert.Equal(t, "0.00", zero.TotalCommission)

	_, err = svc.GetEmployeeQuarterlyCommission(ctx, uuid.New(), 2024, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetQuarterlyCommissions(ctx, 2024, 7)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
