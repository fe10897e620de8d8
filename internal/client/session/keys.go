package session

import "github.com/dmitrijs2005/countryexplorer/internal/client/repositories/kv"

const (
	NamespaceUser      = "user"
	NamespacePassword  = "password"
	NamespaceFavorites = "favorites"
)

func userKey() kv.Key {
	return kv.Key{Namespace: NamespaceUser}
}

func passwordKey(username string) kv.Key {
	return kv.Key{Namespace: NamespacePassword, Name: username}
}

func favoritesKey(username string) kv.Key {
	return kv.Key{Namespace: NamespaceFavorites, Name: username}
}
