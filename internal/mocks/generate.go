package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RangeStore --dir ../domain/series --output domain/series --outpkg seriesmock --filename range_store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Provider --dir ../domain/stage --output domain/stage --outpkg stagemock --filename provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Provider --dir ../domain/fixture --output domain/fixture --outpkg fixturemock --filename provider_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Provider --dir ../domain/team --output domain/team --outpkg teammock --filename provider_mock.go
