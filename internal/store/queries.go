package store

import (
	"sort"
	"time"

	"mineq-data/internal/domain"
)

// 只读访问子：全部返回副本，集合的权威副本不外泄

func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User(nil), s.users...)
}

func (s *Store) Equipment() []domain.Equipment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Equipment(nil), s.equipment...)
}

func (s *Store) Logs() []domain.Log {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Log(nil), s.logs...)
}

// CurrentUser 当前会话用户；未登录返回 nil
func (s *Store) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

func (s *Store) EquipmentByID(id int) (domain.Equipment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.equipment {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Equipment{}, false
}

// LogsForEquipment 指定设备的全生命周期日志，按日期倒序
func (s *Store) LogsForEquipment(eqID int) []domain.Log {
	s.mu.RLock()
	var history []domain.Log
	for _, l := range s.logs {
		if l.EqID == eqID {
			history = append(history, l)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].LogDate > history[j].LogDate
	})
	return history
}

// InspectionDueItem 检验到期台账条目
type InspectionDueItem struct {
	Equipment domain.Equipment
	DaysLeft  int // 距下次检验的天数，过期为负
}

// InspectionDue 定期检验到期提醒台账：
// 有下次检验日期且未报废、剩余天数不超过 withinDays 的设备，按剩余天数升序
func (s *Store) InspectionDue(withinDays int, now time.Time) []InspectionDueItem {
	s.mu.RLock()
	var due []InspectionDueItem
	for _, e := range s.equipment {
		if e.NextInspectionDate == "" || e.Status == domain.StatusScrapped {
			continue
		}
		days, ok := domain.DaysUntil(e.NextInspectionDate, now)
		if !ok || days > withinDays {
			continue
		}
		due = append(due, InspectionDueItem{Equipment: e, DaysLeft: days})
	}
	s.mu.RUnlock()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].DaysLeft < due[j].DaysLeft
	})
	return due
}

// SpecialEquipment 特种设备清单
func (s *Store) SpecialEquipment() []domain.Equipment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Equipment
	for _, e := range s.equipment {
		if e.IsSpecial {
			out = append(out, e)
		}
	}
	return out
}

// StatusStats 系统概览统计
type StatusStats struct {
	Total      int
	InUse      int
	Standby    int
	Repairing  int
	Scrapped   int
	Special    int
	Mechanical int
	Electrical int
}

// Stats 按状态与类别统计设备数量
func (s *Store) Stats() StatusStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := StatusStats{Total: len(s.equipment)}
	for i := range s.equipment {
		e := &s.equipment[i]
		switch e.Status {
		case domain.StatusInUse:
			st.InUse++
		case domain.StatusStandby:
			st.Standby++
		case domain.StatusRepairing:
			st.Repairing++
		case domain.StatusScrapped:
			st.Scrapped++
		}
		if e.IsSpecial {
			st.Special++
		}
		switch e.Category() {
		case domain.CategoryElectrical:
			st.Electrical++
		default:
			st.Mechanical++
		}
	}
	return st
}
