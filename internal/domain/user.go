package domain

// Role 用户角色
type Role string

const (
	RoleAdmin  Role = "admin"  // 管理员：审批注册、管理用户、数据备份
	RoleWorker Role = "worker" // 普通员工
)

// UserStatus 用户账号状态
type UserStatus string

const (
	UserActive  UserStatus = "active"  // 已激活，可登录
	UserPending UserStatus = "pending" // 注册待管理员审批
)

// User 用户领域模型
// JSON 字段名与前端存储格式保持一致（passwordHash 为 camelCase，历史原因）
type User struct {
	Username     string     `json:"username"`     // 唯一键
	PasswordHash string     `json:"passwordHash"` // SHA-256 十六进制摘要
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	Fullname     string     `json:"fullname,omitempty"`
	Team         string     `json:"team,omitempty"`
	Contact      string     `json:"contact,omitempty"`
}

// UserUpdate 用户部分更新（nil 字段不修改）
type UserUpdate struct {
	PasswordHash *string
	Role         *Role
	Status       *UserStatus
	Fullname     *string
	Team         *string
	Contact      *string
}

// Apply 将非 nil 字段合并到用户记录
func (u *UserUpdate) Apply(target *User) {
	if u.PasswordHash != nil {
		target.PasswordHash = *u.PasswordHash
	}
	if u.Role != nil {
		target.Role = *u.Role
	}
	if u.Status != nil {
		target.Status = *u.Status
	}
	if u.Fullname != nil {
		target.Fullname = *u.Fullname
	}
	if u.Team != nil {
		target.Team = *u.Team
	}
	if u.Contact != nil {
		target.Contact = *u.Contact
	}
}

// SeedPasswordHash 默认账号的共享密码摘要（SHA-256("123456")）
const SeedPasswordHash = "8d969eef6ecad3c29a3a629280e686cf0c3f5d5a86aff3ca12020c923adc6c92"

// SeedUsers 存储为空时的初始账号（恰好两个：admin / worker）
func SeedUsers() []User {
	return []User{
		{Username: "admin", PasswordHash: SeedPasswordHash, Role: RoleAdmin, Status: UserActive, Fullname: "系统管理员"},
		{Username: "worker", PasswordHash: SeedPasswordHash, Role: RoleWorker, Status: UserActive, Fullname: "普通员工"},
	}
}
