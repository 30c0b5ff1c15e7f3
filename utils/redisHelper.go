package utils

import (
	"os"
	"reflect"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/catalog_backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

/* generic functions */

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

/* Redis */

func referenceListKey[T any](businessId string) string {
	if businessId == "" {
		return "Reference:" + GetTypeName[T]() + "List"
	}
	return "Reference:" + GetTypeName[T]() + "List:" + businessId
}

// store a reference-data list, Reference:TypeList:$business_id
func StoreRedisList[T any](obj []*T, businessId string) error {
	return config.SetRedisObject(referenceListKey[T](businessId), &obj, GetCacheLifespan())
}

// retrieve a list.
// returns nil if does not exist, businessId can be empty
func RetrieveRedisList[T any](businessId string) ([]*T, error) {
	var result []*T
	exists, err := config.GetRedisObject(referenceListKey[T](businessId), &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}

// clear list, Reference:TypeList:$business_id
func RemoveRedisList[T any](businessId string) error {
	return config.RemoveRedisKey(referenceListKey[T](businessId))
}
