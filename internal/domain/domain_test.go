package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_MatchesSeedDigest(t *testing.T) {
	// 种子账号的共享摘要就是 SHA-256("123456")
	assert.Equal(t, SeedPasswordHash, HashPassword("123456"))
	// 确定性与固定长度（256 位 → 64 个十六进制字符）
	assert.Equal(t, HashPassword("abc"), HashPassword("abc"))
	assert.Len(t, HashPassword(""), 64)
}

func TestDerivedStatus(t *testing.T) {
	st, ok := DerivedStatus("故障维修-皮带断裂")
	require.True(t, ok)
	assert.Equal(t, StatusRepairing, st)

	st, ok = DerivedStatus("例行保养后维修完成")
	require.True(t, ok)
	assert.Equal(t, StatusInUse, st)

	_, ok = DerivedStatus("日常保养")
	assert.False(t, ok)
}

func TestNextIDs(t *testing.T) {
	assert.Equal(t, 1, NextEquipmentID(nil))
	assert.Equal(t, 8, NextEquipmentID([]Equipment{{ID: 3}, {ID: 7}, {ID: 1}}))

	assert.Equal(t, 1, NextLogID(nil))
	assert.Equal(t, 5, NextLogID([]Log{{ID: 4}, {ID: 2}}))
}

func TestEquipmentJSON_FlattensSpecFields(t *testing.T) {
	e := Equipment{
		ID:     1,
		Name:   "主井提升机",
		Status: StatusInUse,
	}
	e.MotorModel = "YB2-355M-4"
	e.Location = "中央变电所"

	raw, err := json.Marshal(e)
	require.NoError(t, err)

	// 类别专有字段与公共字段平铺在同一层
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "YB2-355M-4", m["motor_model"])
	assert.Equal(t, "中央变电所", m["location"])
	_, nested := m["MechanicalSpec"]
	assert.False(t, nested)

	var back Equipment
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, e, back)
}

func TestEquipmentCategory_DefaultsToMechanical(t *testing.T) {
	var e Equipment
	assert.Equal(t, CategoryMechanical, e.Category())

	e.RawCategory = CategoryElectrical
	assert.Equal(t, CategoryElectrical, e.Category())
}

func TestUserUpdate_Apply(t *testing.T) {
	u := User{Username: "admin", Role: RoleWorker, Status: UserPending, Team: "机电一队"}

	role := RoleAdmin
	status := UserActive
	(&UserUpdate{Role: &role, Status: &status}).Apply(&u)

	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, UserActive, u.Status)
	// 未提供的字段保持不动
	assert.Equal(t, "机电一队", u.Team)
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

	days, ok := DaysUntil("2024-06-11", now)
	require.True(t, ok)
	assert.Equal(t, 10, days)

	days, ok = DaysUntil("2024-05-30", now)
	require.True(t, ok)
	assert.Equal(t, -2, days)

	_, ok = DaysUntil("不是日期", now)
	assert.False(t, ok)
}
