package circulation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/domain/library"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// =========================================
// 添加图书
// =========================================

// AddBookUseCase 图书入库用例
type AddBookUseCase struct {
	lib *library.Library
	obs *Instrumentation
}

func NewAddBookUseCase(lib *library.Library, obs *Instrumentation) *AddBookUseCase {
	return &AddBookUseCase{lib: lib, obs: obs}
}

// AddBookRequest 入库请求DTO
type AddBookRequest struct {
	ID              string
	Title           string
	Author          string
	PublicationYear int
}

// Execute 执行入库
// 构造校验由book.NewBook负责，ID重复由Library负责
func (uc *AddBookUseCase) Execute(ctx context.Context, req AddBookRequest) (*BookResponse, error) {
	var resp BookResponse
	err := uc.obs.command(ctx, "add_book", []attribute.KeyValue{bookAttr(req.ID)}, func(ctx context.Context) error {
		b, err := book.NewBook(req.ID, req.Title, req.Author, req.PublicationYear)
		if err != nil {
			return err
		}
		// 入库后其他goroutine即可借出，先拷贝
		snap := b.Snapshot()
		if err := uc.lib.AddBook(b); err != nil {
			return err
		}
		resp = toBookResponse(snap)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// =========================================
// 删除图书
// =========================================

// RemoveBookUseCase 图书下架用例
type RemoveBookUseCase struct {
	lib *library.Library
	obs *Instrumentation
}

func NewRemoveBookUseCase(lib *library.Library, obs *Instrumentation) *RemoveBookUseCase {
	return &RemoveBookUseCase{lib: lib, obs: obs}
}

// Execute 删除图书，已借出的图书不能删除
func (uc *RemoveBookUseCase) Execute(ctx context.Context, bookID string) error {
	return uc.obs.command(ctx, "remove_book", []attribute.KeyValue{bookAttr(bookID)}, func(context.Context) error {
		return uc.lib.RemoveBook(bookID)
	})
}

// =========================================
// 查询
// =========================================

// FindBookUseCase 按ID查询图书
type FindBookUseCase struct {
	lib *library.Library
	obs *Instrumentation
}

func NewFindBookUseCase(lib *library.Library, obs *Instrumentation) *FindBookUseCase {
	return &FindBookUseCase{lib: lib, obs: obs}
}

// Execute 查询图书，不存在时返回book.ErrBookNotFound
func (uc *FindBookUseCase) Execute(ctx context.Context, bookID string) (*BookResponse, error) {
	var resp BookResponse
	err := uc.obs.query(ctx, "find_book", []attribute.KeyValue{bookAttr(bookID)}, func(context.Context) error {
		snap, ok := uc.lib.BookSnapshot(bookID)
		if !ok {
			return apperrors.WithDetail(book.ErrBookNotFound, "book %s", bookID)
		}
		resp = toBookResponse(snap)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListAvailableBooksUseCase 可借图书列表
type ListAvailableBooksUseCase struct {
	lib *library.Library
	obs *Instrumentation
}

func NewListAvailableBooksUseCase(lib *library.Library, obs *Instrumentation) *ListAvailableBooksUseCase {
	return &ListAvailableBooksUseCase{lib: lib, obs: obs}
}

// Execute 按目录顺序返回可借图书
func (uc *ListAvailableBooksUseCase) Execute(ctx context.Context) ([]BookResponse, error) {
	var resp []BookResponse
	err := uc.obs.query(ctx, "list_available_books", nil, func(context.Context) error {
		resp = toBookResponses(uc.lib.AvailableBookSnapshots())
		return nil
	})
	return resp, err
}

// ListCatalogUseCase 完整目录
type ListCatalogUseCase struct {
	lib *library.Library
	obs *Instrumentation
}

func NewListCatalogUseCase(lib *library.Library, obs *Instrumentation) *ListCatalogUseCase {
	return &ListCatalogUseCase{lib: lib, obs: obs}
}

// Execute 按入库顺序返回全部图书
func (uc *ListCatalogUseCase) Execute(ctx context.Context) ([]BookResponse, error) {
	var resp []BookResponse
	err := uc.obs.query(ctx, "list_catalog", nil, func(context.Context) error {
		resp = toBookResponses(uc.lib.CatalogSnapshots())
		return nil
	})
	return resp, err
}
