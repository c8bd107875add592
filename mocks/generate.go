package mocks

//go:generate mockgen -destination=./mock_writer.go -package=mocks github.com/rxtech-lab/price-convert/pkg/dataset/writer DatasetWriter
