package domain

// Image описывает изображение товара, которое хранится в S3
type Image struct {
	ID        string // uuid
	Bucket    string
	ObjectKey string
	Bytes     []byte
	// Передайте значение -1 в Size, если размер потока неизвестен
	// (внимание: при передаче значения -1 будет выделен большой объем памяти).
	Size        *int64
	ContentType *string // Example: "image/jpeg"
}

func NewImage(id string, bucket string, objectKey string, data []byte, size *int64, contentType *string) *Image {
	return &Image{
		ID:          id,
		Bucket:      bucket,
		ObjectKey:   objectKey,
		Bytes:       data,
		Size:        size,
		ContentType: contentType,
	}
}
