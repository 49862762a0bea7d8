package book

import (
	"strings"
)

// Book 图书实体
// 设计说明：
// 1. ID是业务唯一标识（目录内唯一），创建后不可修改
// 2. 相等性只由ID决定，书名/作者/年份不参与比较
// 3. available只能通过MarkBorrowed/MarkAvailable修改
type Book struct {
	id              string
	title           string
	author          string
	publicationYear int
	available       bool
}

// NewBook 创建新图书（工厂方法）
// 业务规则：
// - id、title、author去除首尾空白后不能为空
// - publicationYear必须>0
// 新建的图书默认可借
func NewBook(id, title, author string, publicationYear int) (*Book, error) {
	if isBlank(id) || isBlank(title) || isBlank(author) || publicationYear <= 0 {
		return nil, ErrInvalidBook
	}
	return &Book{
		id:              id,
		title:           title,
		author:          author,
		publicationYear: publicationYear,
		available:       true,
	}, nil
}

func (b *Book) ID() string           { return b.id }
func (b *Book) Title() string        { return b.title }
func (b *Book) Author() string       { return b.author }
func (b *Book) PublicationYear() int { return b.publicationYear }

// IsAvailable 是否可借
func (b *Book) IsAvailable() bool { return b.available }

// MarkBorrowed 标记为已借出
// 不做前置检查，由调用方（library.Library）保证；重复调用结果不变
func (b *Book) MarkBorrowed() {
	b.available = false
}

// MarkAvailable 标记为可借，重复调用结果不变
func (b *Book) MarkAvailable() {
	b.available = true
}

// Equal 按ID比较
func (b *Book) Equal(other *Book) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.id == other.id
}

// Key 返回用于map/集合的键，与Equal一致
func (b *Book) Key() string {
	return b.id
}

// Snapshot 图书某一时刻的值拷贝
// Book实例由Library的锁保护，锁外只能读Snapshot
type Snapshot struct {
	ID              string
	Title           string
	Author          string
	PublicationYear int
	Available       bool
}

// Snapshot 拷贝当前状态，调用方需持有保护该图书的锁
func (b *Book) Snapshot() Snapshot {
	return Snapshot{
		ID:              b.id,
		Title:           b.title,
		Author:          b.author,
		PublicationYear: b.publicationYear,
		Available:       b.available,
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
