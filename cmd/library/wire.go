//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改Provider后运行 `wire gen ./cmd/library` 重新生成wire_gen.go

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/xiebiao/library/internal/application/circulation"
	"github.com/xiebiao/library/internal/domain/library"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/persistence/memory"
)

// ========================================
// Wire Provider Sets
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：日志、链路追踪、指标、借还记录仓储
var infrastructureSet = wire.NewSet(
	provideLogger,
	provideTracerProvider,
	provideTracer,
	provideCollector,
	memory.NewLoanLedger,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	library.NewLibrary,
)

// applicationSet 应用层依赖
// 包含：所有Use Case的构造函数
var applicationSet = wire.NewSet(
	circulation.NewInstrumentation,
	circulation.NewAddBookUseCase,
	circulation.NewRemoveBookUseCase,
	circulation.NewRegisterMemberUseCase,
	circulation.NewRemoveMemberUseCase,
	circulation.NewBorrowBookUseCase,
	circulation.NewReturnBookUseCase,
	circulation.NewListAvailableBooksUseCase,
	circulation.NewStatsUseCase,
	circulation.NewSeeder,
	provideSeedRequest,
)

// InitializeApp 初始化整个应用
// cleanup按与创建相反的顺序关闭TracerProvider和日志文件
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		NewApp,
	)
	return nil, nil, nil
}
